package nav

import (
	"testing"

	"railcross"
)

func TestResolvePanel(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name     string
		fragment string
		want     railcross.Panel
	}{
		{"absent fragment defaults to home", "", railcross.PanelHome},
		{"home", "#/home", railcross.PanelHome},
		{"login", "#/login", railcross.PanelLogin},
		{"signup", "#/signup", railcross.PanelSignup},
		{"dashboard", "#/dashboard", railcross.PanelDashboard},
		{"sensors", "#/sensors", railcross.PanelSensors},
		{"history", "#/history", railcross.PanelHistory},
		{"unknown falls back to home", "#/reports", railcross.PanelHome},
		{"garbage falls back to home", "!!?", railcross.PanelHome},
		{"missing slash falls back to home", "#dashboard", railcross.PanelHome},
	}

	for _, tc := range cases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			if got := ResolvePanel(tc.fragment); got != tc.want {
				t.Errorf("ResolvePanel(%q): want %v, got %v", tc.fragment, tc.want, got)
			}
		})
	}
}

func TestLocation_SetNotifiesReplaceDoesNot(t *testing.T) {
	t.Parallel()

	loc := NewLocation()
	if loc.Fragment() != railcross.PanelHome.Fragment() {
		t.Fatalf("initial fragment: got %q", loc.Fragment())
	}

	var notified []string
	loc.Subscribe(func(fragment string) { notified = append(notified, fragment) })

	loc.Set("#/login")
	if loc.Fragment() != "#/login" {
		t.Errorf("Fragment after Set: got %q", loc.Fragment())
	}
	loc.Replace("#/home")
	if loc.Fragment() != "#/home" {
		t.Errorf("Fragment after Replace: got %q", loc.Fragment())
	}

	if len(notified) != 1 || notified[0] != "#/login" {
		t.Errorf("expected exactly one notification for Set, got %v", notified)
	}
}
