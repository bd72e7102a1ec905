package game

import (
	"fmt"
	"testing"
)

func TestCorrectPositions_AllMatch(t *testing.T) {
	if n := CorrectPositions("0011", "0011"); n != 4 {
		t.Fatalf("expected 4 got %d", n)
	}
}

func TestCorrectPositions_NoMatch(t *testing.T) {
	if n := CorrectPositions("0000", "1111"); n != 0 {
		t.Fatalf("expected 0 got %d", n)
	}
}

func TestCorrectPositions_RepeatedDigits(t *testing.T) {
	// 1111 vs 1123: only indices 0 and 1 line up
	if n := CorrectPositions("1111", "1123"); n != 2 {
		t.Fatalf("expected 2 got %d", n)
	}
}

func TestCorrectPositions_FourOnlyWhenEqual(t *testing.T) {
	// sample the space instead of all 10^8 pairs
	for g := 0; g < 10000; g += 37 {
		for s := 0; s < 10000; s += 41 {
			guess := fmt.Sprintf("%04d", g)
			secret := fmt.Sprintf("%04d", s)
			if (CorrectPositions(guess, secret) == 4) != (guess == secret) {
				t.Fatalf("guess=%s secret=%s", guess, secret)
			}
		}
	}
	for _, s := range []string{"0000", "1234", "9876", "5050"} {
		if CorrectPositions(s, s) != 4 {
			t.Fatalf("%s vs itself not 4", s)
		}
	}
}

func TestFeedbackDigitSet(t *testing.T) {
	cases := []struct {
		guess, secret string
		want          []string
	}{
		{"1111", "1123", []string{"1"}},
		{"4321", "1234", []string{"1", "2", "3", "4"}},
		{"5678", "1234", []string{}},
		{"9090", "0009", []string{"0", "9"}},
		{"2211", "1122", []string{"1", "2"}},
	}
	for _, tc := range cases {
		got := FeedbackDigitSet(tc.guess, tc.secret)
		if fmt.Sprint(got) != fmt.Sprint(tc.want) {
			t.Fatalf("FeedbackDigitSet(%s,%s)=%v want %v", tc.guess, tc.secret, got, tc.want)
		}
	}
}

func TestFeedbackDigitSet_SubsetOfSecretWithoutDuplicates(t *testing.T) {
	for g := 0; g < 10000; g += 53 {
		for s := 0; s < 10000; s += 59 {
			guess := fmt.Sprintf("%04d", g)
			secret := fmt.Sprintf("%04d", s)
			seen := map[string]bool{}
			for _, d := range FeedbackDigitSet(guess, secret) {
				if seen[d] {
					t.Fatalf("duplicate %s for %s/%s", d, guess, secret)
				}
				seen[d] = true
				found := false
				for i := 0; i < CodeLength; i++ {
					if string(secret[i]) == d {
						found = true
					}
				}
				if !found {
					t.Fatalf("%s not in secret %s", d, secret)
				}
			}
		}
	}
}

func TestFeedbackPositionMask(t *testing.T) {
	got := FeedbackPositionMask("1111", "1123")
	want := []bool{true, true, false, false}
	if fmt.Sprint(got) != fmt.Sprint(want) {
		t.Fatalf("mask=%v want %v", got, want)
	}

	// presence without position does not count as a hit
	got = FeedbackPositionMask("4321", "1234")
	want = []bool{false, false, false, false}
	if fmt.Sprint(got) != fmt.Sprint(want) {
		t.Fatalf("mask=%v want %v", got, want)
	}
}

func TestValid4Digits(t *testing.T) {
	cases := []struct {
		s  string
		ok bool
	}{
		{"0000", true},
		{"0123", true},
		{"9999", true},
		{"123", false},
		{"12345", false},
		{"12a4", false},
		{"-123", false},
		{" 123", false},
		{"١٢٣٤", false},
		{"", false},
	}
	for _, tc := range cases {
		if got := valid4Digits(tc.s); got != tc.ok {
			t.Fatalf("valid4Digits(%q)=%v want %v", tc.s, got, tc.ok)
		}
	}
}
