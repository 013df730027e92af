// © 2026 Ilya Mateyko. All rights reserved.
// Use of this source code is governed by the ISC
// license that can be found in the LICENSE.md file.

// Package versioning derives the next version of a project from the stored
// one and the current time.
//
// A version has a key and a counter. When the key computed from the clock
// equals the stored one, the counter is incremented; otherwise it starts
// over at 1. Two keying policies are provided: [Month], which keys on the
// year and month and stores them as major.minor, and [DayOfYear], which
// keys on a year+day-of-year token and leaves major.minor to the caller.
package versioning

import (
	"errors"
	"fmt"
	"slices"
	"strconv"
	"strings"
	"time"
)

// ErrMalformedVersion is returned when a version string does not split into
// the fields a policy expects.
var ErrMalformedVersion = errors.New("malformed version")

// Version is a parsed project version.
type Version struct {
	Major int
	Minor int
	// Date is the year+day-of-year token of the DayOfYear policy.
	Date string
	// Counter is the build counter within the current key. Always >= 1.
	Counter int

	// Widths of Major and Minor as they were written, so that values read
	// from a file render back the same way.
	majorWidth, minorWidth int
}

// Fields holds the rendered parts of a version, as embedded into
// project files.
type Fields struct {
	Major    string
	Minor    string
	Build    string
	Revision string // empty if the policy has no revision field
	Full     string
}

// Policy parses, advances and renders versions.
type Policy interface {
	// Name returns the name the policy is configured by.
	Name() string
	// Parse parses s. Surrounding whitespace is ignored.
	Parse(s string) (Version, error)
	// Next returns the version following prev at time now.
	Next(prev Version, now time.Time) Version
	// Format renders v.
	Format(v Version) string
	// Fields returns the rendered parts of v.
	Fields(v Version) Fields
}

var (
	// Month keys versions on the UTC year and month, written as YY.MM.NNNN.
	Month Policy = monthPolicy{}
	// DayOfYear keys versions on the UTC year and day of year, written as
	// major.minor.YYDDD.revision.
	DayOfYear Policy = dayPolicy{}
)

// Default is the policy used when none is configured.
var Default = Month

var policies = []Policy{Month, DayOfYear}

// Lookup returns the policy with the given name.
func Lookup(name string) (Policy, error) {
	i := slices.IndexFunc(policies, func(p Policy) bool { return p.Name() == name })
	if i < 0 {
		return nil, fmt.Errorf("unknown version policy %q", name)
	}
	return policies[i], nil
}

type monthPolicy struct{}

func (monthPolicy) Name() string { return "month" }

func (monthPolicy) Parse(s string) (Version, error) {
	parts, err := split(s, 3)
	if err != nil {
		return Version{}, err
	}
	var v Version
	if v.Major, err = number(s, parts[0]); err != nil {
		return Version{}, err
	}
	if v.Minor, err = number(s, parts[1]); err != nil {
		return Version{}, err
	}
	if v.Counter, err = counter(s, parts[2]); err != nil {
		return Version{}, err
	}
	v.majorWidth, v.minorWidth = len(parts[0]), len(parts[1])
	return v, nil
}

func (monthPolicy) Next(prev Version, now time.Time) Version {
	now = now.UTC()
	year, month := now.Year()%100, int(now.Month())
	if prev.Major == year && prev.Minor == month {
		next := prev
		next.Counter++
		return next
	}
	return Version{
		Major:      year,
		Minor:      month,
		Counter:    1,
		majorWidth: 2,
		minorWidth: 2,
	}
}

func (p monthPolicy) Format(v Version) string { return p.Fields(v).Full }

func (monthPolicy) Fields(v Version) Fields {
	f := Fields{
		Major: pad(v.Major, v.majorWidth),
		Minor: pad(v.Minor, v.minorWidth),
		Build: pad(v.Counter, 4),
	}
	f.Full = f.Major + "." + f.Minor + "." + f.Build
	return f
}

type dayPolicy struct{}

func (dayPolicy) Name() string { return "day" }

func (dayPolicy) Parse(s string) (Version, error) {
	parts, err := split(s, 4)
	if err != nil {
		return Version{}, err
	}
	var v Version
	if v.Major, err = number(s, parts[0]); err != nil {
		return Version{}, err
	}
	if v.Minor, err = number(s, parts[1]); err != nil {
		return Version{}, err
	}
	if _, err := number(s, parts[2]); err != nil {
		return Version{}, err
	}
	if len(parts[2]) != 5 {
		return Version{}, fmt.Errorf("%w: %q: date token %q is not YYDDD", ErrMalformedVersion, s, parts[2])
	}
	v.Date = parts[2]
	if v.Counter, err = counter(s, parts[3]); err != nil {
		return Version{}, err
	}
	v.majorWidth, v.minorWidth = len(parts[0]), len(parts[1])
	return v, nil
}

func (dayPolicy) Next(prev Version, now time.Time) Version {
	date := DateToken(now)
	next := prev
	if prev.Date == date {
		next.Counter++
		return next
	}
	next.Date = date
	next.Counter = 1
	return next
}

func (p dayPolicy) Format(v Version) string { return p.Fields(v).Full }

func (dayPolicy) Fields(v Version) Fields {
	f := Fields{
		Major:    pad(v.Major, v.majorWidth),
		Minor:    pad(v.Minor, v.minorWidth),
		Build:    v.Date,
		Revision: strconv.Itoa(v.Counter),
	}
	f.Full = f.Major + "." + f.Minor + "." + f.Build + "." + f.Revision
	return f
}

// DateToken returns the 2-digit UTC year followed by the 3-digit UTC day of
// year of t, e.g. "26292" for 2026-10-19.
func DateToken(t time.Time) string {
	t = t.UTC()
	return fmt.Sprintf("%02d%03d", t.Year()%100, t.YearDay())
}

func split(s string, n int) ([]string, error) {
	parts := strings.Split(strings.TrimSpace(s), ".")
	if len(parts) != n {
		return nil, fmt.Errorf("%w: %q: want %d dot-separated fields, got %d", ErrMalformedVersion, s, n, len(parts))
	}
	return parts, nil
}

func number(s, field string) (int, error) {
	if field == "" || strings.TrimLeft(field, "0123456789") != "" {
		return 0, fmt.Errorf("%w: %q: field %q is not a number", ErrMalformedVersion, s, field)
	}
	n, err := strconv.Atoi(field)
	if err != nil {
		return 0, fmt.Errorf("%w: %q: %w", ErrMalformedVersion, s, err)
	}
	return n, nil
}

func counter(s, field string) (int, error) {
	n, err := number(s, field)
	if err != nil {
		return 0, err
	}
	if n < 1 {
		return 0, fmt.Errorf("%w: %q: counter must be at least 1", ErrMalformedVersion, s)
	}
	return n, nil
}

func pad(n, width int) string {
	return fmt.Sprintf("%0*d", width, n)
}
