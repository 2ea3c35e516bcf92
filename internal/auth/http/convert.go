package http

import (
	"github.com/hsshealth/hss/internal/auth/domain"
	"github.com/hsshealth/hss/pkg/authsdk"
)

func toAccount(acc domain.TenantAccount) authsdk.Account {
	return authsdk.Account{
		ID:                acc.ID,
		HospitalName:      acc.HospitalName,
		TenantDBName:      acc.TenantDBName,
		Province:          acc.Province,
		City:              acc.City,
		ContactPersonName: acc.ContactPersonName,
		Email:             acc.Email,
		EmailID:           acc.EmailID,
		PhoneNumber:       acc.PhoneNumber,
		GPSCoordinates:    acc.GPSCoordinates,
		LocationAddress:   acc.LocationAddress,
		Role:              string(acc.Role),
		IsApproved:        acc.IsApproved,
		Status:            string(acc.Status()),
		LastLogin:         acc.LastLogin,
		CreatedAt:         acc.CreatedAt,
		UpdatedAt:         acc.UpdatedAt,
	}
}

func toAccounts(accs []domain.TenantAccount) []authsdk.Account {
	out := make([]authsdk.Account, 0, len(accs))
	for _, a := range accs {
		out = append(out, toAccount(a))
	}
	return out
}

func toStats(s domain.DashboardStats) authsdk.DashboardStatsResponse {
	return authsdk.DashboardStatsResponse{
		TotalStaff:       s.TotalStaff,
		ActiveShifts:     s.ActiveShifts,
		PendingApprovals: s.PendingApprovals,
		Compliance: authsdk.ComplianceStats{
			Valid:   s.CompliantStaff,
			Invalid: s.NonCompliantStaff,
		},
		UnreadAlerts: s.UnreadAlerts,
	}
}

func toAlertItems(alerts []domain.Alert) []authsdk.AlertItem {
	out := make([]authsdk.AlertItem, 0, len(alerts))
	for _, a := range alerts {
		out = append(out, authsdk.AlertItem{
			ID:          a.ID,
			Title:       a.Title,
			Description: a.Description,
			Level:       string(a.Level),
			IsRead:      a.IsRead,
			CreatedAt:   a.CreatedAt,
		})
	}
	return out
}

func toShiftItems(shifts []domain.Shift) []authsdk.ShiftItem {
	out := make([]authsdk.ShiftItem, 0, len(shifts))
	for _, s := range shifts {
		out = append(out, authsdk.ShiftItem{
			ID:        s.ID,
			StaffID:   s.StaffID,
			Name:      s.Staff.FullName(),
			Role:      s.Staff.Position,
			AvatarURL: s.Staff.ProfileImage,
			Start:     s.StartTime,
			End:       s.EndTime,
			Status:    string(s.Status),
		})
	}
	return out
}
