package model

import "regexp"

var clockPattern = regexp.MustCompile(`^([01][0-9]|2[0-3]):[0-5][0-9]$`)

// ValidClock reports whether s is a zero-padded 24-hour "HH:MM" string.
func ValidClock(s string) bool {
	return clockPattern.MatchString(s)
}

// MinuteOfDay converts a validated "HH:MM" string to minutes since
// midnight. Callers must validate with ValidClock first.
func MinuteOfDay(s string) int {
	h := int(s[0]-'0')*10 + int(s[1]-'0')
	m := int(s[3]-'0')*10 + int(s[4]-'0')
	return h*60 + m
}
