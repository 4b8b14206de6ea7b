package models

import (
	"encoding/json"
	"errors"
	"testing"
	"time"
)

func TestCampaignTypeIsDraw(t *testing.T) {
	cases := []struct {
		campaignType CampaignType
		want         bool
	}{
		{CampaignTypeGacha, true},
		{CampaignTypeFukubiki, true},
		{CampaignTypeScratch, true},
		{CampaignTypeRoulette, true},
		{CampaignTypeStampRally, false},
		{CampaignType("lottery"), false},
	}

	for _, tc := range cases {
		if got := tc.campaignType.IsDraw(); got != tc.want {
			t.Errorf("%s: IsDraw() = %v, want %v", tc.campaignType, got, tc.want)
		}
	}
}

func TestCampaignActiveAt(t *testing.T) {
	now := time.Now()
	before := now.Add(-time.Hour)
	after := now.Add(time.Hour)

	cases := []struct {
		name     string
		campaign Campaign
		want     bool
	}{
		{"open window", Campaign{Enabled: true}, true},
		{"disabled", Campaign{Enabled: false}, false},
		{"within window", Campaign{Enabled: true, StartsAt: &before, EndsAt: &after}, true},
		{"not started", Campaign{Enabled: true, StartsAt: &after}, false},
		{"already ended", Campaign{Enabled: true, EndsAt: &before}, false},
		{"open ended", Campaign{Enabled: true, StartsAt: &before}, true},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := tc.campaign.ActiveAt(now); got != tc.want {
				t.Errorf("ActiveAt() = %v, want %v", got, tc.want)
			}
		})
	}
}

func TestGachaSettingsValidation(t *testing.T) {
	raw, _ := json.Marshal(GachaSettings{CostPerPlay: 10})
	campaign := &Campaign{Type: CampaignTypeGacha, Settings: raw}

	settings, err := campaign.GachaSettings()
	if err != nil {
		t.Fatal(err)
	}
	if settings.CostPerPlay != 10 {
		t.Errorf("cost = %d, want 10", settings.CostPerPlay)
	}

	// empty settings default to zero cost
	empty := &Campaign{Type: CampaignTypeGacha}
	settings, err = empty.GachaSettings()
	if err != nil {
		t.Fatal(err)
	}
	if settings.CostPerPlay != 0 {
		t.Errorf("empty settings cost = %d, want 0", settings.CostPerPlay)
	}

	negative, _ := json.Marshal(GachaSettings{CostPerPlay: -1})
	bad := &Campaign{Type: CampaignTypeGacha, Settings: negative}
	if _, err := bad.GachaSettings(); !errors.Is(err, ErrBadCampaignSettings) {
		t.Errorf("negative cost: err = %v, want ErrBadCampaignSettings", err)
	}

	rally := &Campaign{Type: CampaignTypeStampRally, Settings: raw}
	if _, err := rally.GachaSettings(); !errors.Is(err, ErrBadCampaignSettings) {
		t.Errorf("stamp rally: err = %v, want ErrBadCampaignSettings", err)
	}
}

func TestStampRallySettingsValidation(t *testing.T) {
	raw, _ := json.Marshal(StampRallySettings{TotalStamps: 3, PointsPerStamp: 5, CompletionBonus: 30})
	campaign := &Campaign{Type: CampaignTypeStampRally, Settings: raw}

	settings, err := campaign.StampRallySettings()
	if err != nil {
		t.Fatal(err)
	}
	if settings.TotalStamps != 3 || settings.PointsPerStamp != 5 || settings.CompletionBonus != 30 {
		t.Errorf("unexpected settings: %+v", settings)
	}

	cases := []struct {
		name     string
		settings StampRallySettings
	}{
		{"zero stamps", StampRallySettings{TotalStamps: 0}},
		{"negative per-stamp", StampRallySettings{TotalStamps: 3, PointsPerStamp: -1}},
		{"negative bonus", StampRallySettings{TotalStamps: 3, CompletionBonus: -1}},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			raw, _ := json.Marshal(tc.settings)
			bad := &Campaign{Type: CampaignTypeStampRally, Settings: raw}
			if _, err := bad.StampRallySettings(); !errors.Is(err, ErrBadCampaignSettings) {
				t.Errorf("err = %v, want ErrBadCampaignSettings", err)
			}
		})
	}

	gacha := &Campaign{Type: CampaignTypeGacha, Settings: raw}
	if _, err := gacha.StampRallySettings(); !errors.Is(err, ErrBadCampaignSettings) {
		t.Errorf("gacha campaign: err = %v, want ErrBadCampaignSettings", err)
	}
}
