package util

import (
	"strconv"
	"strings"

	"github.com/pkg/errors"
)

type Semver struct {
	Major      int
	Minor      int
	Patch      int
	Beta       bool
	Alpha      bool
	Prerelease int
}

func Parse(semver string) (Semver, error) {
	s := Semver{}
	version, pre, hasPre := strings.Cut(strings.TrimPrefix(strings.TrimSpace(semver), "v"), "-")

	split := strings.Split(version, ".")
	if len(split) != 3 {
		return Semver{}, errors.Errorf("invalid version %q: expected MAJOR.MINOR.PATCH", semver)
	}
	nums := []*int{&s.Major, &s.Minor, &s.Patch}
	for i, part := range split {
		n, err := strconv.Atoi(part)
		if err != nil || n < 0 {
			return Semver{}, errors.Errorf("invalid version %q: bad component %q", semver, part)
		}
		*nums[i] = n
	}

	if hasPre {
		kind, num, _ := strings.Cut(pre, ".")
		switch kind {
		case "beta":
			s.Beta = true
		case "alpha":
			s.Alpha = true
		default:
			return Semver{}, errors.Errorf("invalid prerelease type: %s", pre)
		}
		n, err := strconv.Atoi(num)
		if err != nil {
			return Semver{}, errors.Wrapf(err, "invalid prerelease number in %q", semver)
		}
		s.Prerelease = n
	}

	return s, nil
}

func (s Semver) String() string {
	str := strconv.Itoa(s.Major) + "." + strconv.Itoa(s.Minor) + "." + strconv.Itoa(s.Patch)
	if s.Beta {
		str += "-beta." + strconv.Itoa(s.Prerelease)
	} else if s.Alpha {
		str += "-alpha." + strconv.Itoa(s.Prerelease)
	}
	return str
}

// rank orders prereleases below the release they precede.
func (s Semver) rank() int {
	switch {
	case s.Alpha:
		return 0
	case s.Beta:
		return 1
	default:
		return 2
	}
}

// Compare returns -1, 0 or 1 depending on whether s is older than, equal
// to or newer than o.
func (s Semver) Compare(o Semver) int {
	a := []int{s.Major, s.Minor, s.Patch, s.rank(), s.Prerelease}
	b := []int{o.Major, o.Minor, o.Patch, o.rank(), o.Prerelease}
	for i := range a {
		if a[i] < b[i] {
			return -1
		}
		if a[i] > b[i] {
			return 1
		}
	}
	return 0
}

// Satisfies checks s against a single constraint: an exact version, or
// one prefixed with ~ (same minor), ^ (same major), >, >=, < or <=.
func (s Semver) Satisfies(cmp string) (bool, error) {
	cmp = strings.TrimSpace(cmp)
	op := ""
	for _, prefix := range []string{">=", "<=", "~", "^", ">", "<", "="} {
		if strings.HasPrefix(cmp, prefix) {
			op = prefix
			cmp = strings.TrimSpace(cmp[len(prefix):])
			break
		}
	}

	c, err := Parse(cmp)
	if err != nil {
		return false, err
	}

	d := s.Compare(c)
	switch op {
	case "~":
		return d >= 0 && s.Major == c.Major && s.Minor == c.Minor, nil
	case "^":
		return d >= 0 && s.Major == c.Major, nil
	case ">":
		return d > 0, nil
	case ">=":
		return d >= 0, nil
	case "<":
		return d < 0, nil
	case "<=":
		return d <= 0, nil
	default:
		return d == 0, nil
	}
}
