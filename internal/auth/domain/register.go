package domain

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"unicode"
)

const (
	requiredReason = "required"

	minEmailIDLength  = 3
	minPasswordLength = 8
	maxPasswordLength = 128
)

var (
	reEmail = regexp.MustCompile(`.+@.+\..+`)
	rePhone = regexp.MustCompile(`^\+?[0-9]{7,15}$`)
)

// RegisterInput is a registration candidate before hashing.
type RegisterInput struct {
	HospitalName      string
	Province          string
	City              string
	ContactPersonName string
	Email             string
	EmailID           string
	PhoneNumber       string
	Password          string
	DeviceFingerprint string
	GPSCoordinates    string
	LocationAddress   string
	RecaptchaToken    string
	RemoteIP          string
}

// Normalize trims every free-text field and lowercases the email.
// The password is left untouched.
func (in RegisterInput) Normalize() RegisterInput {
	in.HospitalName = strings.TrimSpace(in.HospitalName)
	in.Province = strings.TrimSpace(in.Province)
	in.City = strings.TrimSpace(in.City)
	in.ContactPersonName = strings.TrimSpace(in.ContactPersonName)
	in.Email = strings.ToLower(strings.TrimSpace(in.Email))
	in.EmailID = strings.TrimSpace(in.EmailID)
	in.PhoneNumber = strings.TrimSpace(in.PhoneNumber)
	in.DeviceFingerprint = strings.TrimSpace(in.DeviceFingerprint)
	in.GPSCoordinates = strings.TrimSpace(in.GPSCoordinates)
	in.LocationAddress = strings.TrimSpace(in.LocationAddress)
	return in
}

// Validate checks every field and returns a *ValidationError naming all of
// the violations, or nil.
func (in RegisterInput) Validate() error {
	errs := make(map[string]string)

	required := map[string]string{
		"hospitalName":      in.HospitalName,
		"contactPersonName": in.ContactPersonName,
		"province":          in.Province,
		"city":              in.City,
		"deviceFingerprint": in.DeviceFingerprint,
	}
	for field, v := range required {
		if strings.TrimSpace(v) == "" {
			errs[field] = requiredReason
		}
	}

	in.validateEmailID(errs)
	in.validateEmail(errs)
	in.validatePhone(errs)
	in.validatePassword(errs)

	if in.GPSCoordinates != "" {
		if _, _, err := ParseCoordinates(in.GPSCoordinates); err != nil {
			errs["gpsCoordinates"] = err.Error()
		}
	}

	if len(errs) == 0 {
		return nil
	}
	return &ValidationError{Fields: errs}
}

func (in RegisterInput) validateEmailID(errs map[string]string) {
	id := strings.TrimSpace(in.EmailID)
	local, _, _ := strings.Cut(id, "@")
	switch {
	case id == "":
		errs["emailId"] = requiredReason
	case len(id) < minEmailIDLength:
		errs["emailId"] = fmt.Sprintf("too short (min %d)", minEmailIDLength)
	case !strings.ContainsFunc(local, isASCIIAlnum):
		errs["emailId"] = "must contain a letter or digit before any @"
	}
}

func (in RegisterInput) validateEmail(errs map[string]string) {
	switch {
	case in.Email == "":
		errs["email"] = requiredReason
	case !reEmail.MatchString(in.Email):
		errs["email"] = "invalid email address"
	}
}

func (in RegisterInput) validatePhone(errs map[string]string) {
	switch {
	case in.PhoneNumber == "":
		errs["phoneNumber"] = requiredReason
	case !rePhone.MatchString(in.PhoneNumber):
		errs["phoneNumber"] = "must be 7-15 digits with an optional leading +"
	}
}

func (in RegisterInput) validatePassword(errs map[string]string) {
	switch {
	case in.Password == "":
		errs["password"] = requiredReason
	case len(in.Password) < minPasswordLength:
		errs["password"] = fmt.Sprintf("too short (min %d)", minPasswordLength)
	case len(in.Password) > maxPasswordLength:
		errs["password"] = fmt.Sprintf("too long (max %d)", maxPasswordLength)
	}
}

// ParseCoordinates parses "lat,lon" and checks both are in range.
func ParseCoordinates(s string) (lat, lon float64, err error) {
	latStr, lonStr, ok := strings.Cut(s, ",")
	if !ok {
		return 0, 0, fmt.Errorf("must be formatted as lat,lon")
	}
	lat, err = strconv.ParseFloat(strings.TrimSpace(latStr), 64)
	if err != nil || lat < -90 || lat > 90 {
		return 0, 0, fmt.Errorf("latitude must be between -90 and 90")
	}
	lon, err = strconv.ParseFloat(strings.TrimSpace(lonStr), 64)
	if err != nil || lon < -180 || lon > 180 {
		return 0, 0, fmt.Errorf("longitude must be between -180 and 180")
	}
	return lat, lon, nil
}

func isASCIIAlnum(r rune) bool {
	return r < unicode.MaxASCII && (unicode.IsLetter(r) || unicode.IsDigit(r))
}
