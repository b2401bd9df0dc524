package models_test

import (
	"testing"

	"github.com/justHusniddin/Antikorbot/internal/models"
	"github.com/stretchr/testify/assert"
)

func TestComplaintFullAddress(t *testing.T) {
	c := &models.Complaint{
		RegionName:   "Тошкент шаҳри",
		DistrictName: "Чилонзор",
	}
	assert.Equal(t, "Тошкент шаҳри, Чилонзор", c.FullAddress())

	c.StreetName = "Катта козиробод"
	assert.Equal(t, "Тошкент шаҳри, Чилонзор, Катта козиробод", c.FullAddress())
}

func TestValidStatus(t *testing.T) {
	for _, s := range []models.ComplaintStatus{
		models.StatusNew, models.StatusInProgress, models.StatusResolved, models.StatusRejected,
	} {
		assert.True(t, models.ValidStatus(s), string(s))
	}
	assert.False(t, models.ValidStatus("closed"))
	assert.False(t, models.ValidStatus(""))
}

func TestTelegramUserFullName(t *testing.T) {
	tests := []struct {
		name string
		user models.TelegramUser
		want string
	}{
		{"both", models.TelegramUser{FirstName: "Ali", LastName: "Valiyev"}, "Ali Valiyev"},
		{"first only", models.TelegramUser{FirstName: "Ali"}, "Ali"},
		{"last only", models.TelegramUser{LastName: "Valiyev"}, "Valiyev"},
		{"none", models.TelegramUser{}, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.user.FullName())
		})
	}
}
