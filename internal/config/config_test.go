package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spec-kit/devops-automation/internal/domain"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "devops-automation", cfg.App.Name)
	assert.Equal(t, "0.0.0.0:8000", cfg.App.Addr())
	assert.Len(t, cfg.Team.L1, 7)
	assert.Len(t, cfg.Team.L2, 4)
	assert.Equal(t, []string{"production", "prod", "live"}, cfg.Team.ProductionAliases)
	assert.Equal(t, 3, cfg.Batch.AIWorkers)

	// The safe default: no live tracker writes until explicitly disabled.
	assert.True(t, cfg.TestMode)
	assert.Equal(t, domain.ModeTest, cfg.InitialMode())
}

func TestLoadTestModeOptOut(t *testing.T) {
	t.Setenv("TEST_MODE", "false")

	cfg, err := Load()
	require.NoError(t, err)

	assert.False(t, cfg.TestMode)
	assert.Equal(t, domain.ModeProduction, cfg.InitialMode())
}

func TestLoadProductionAliasesFromEnv(t *testing.T) {
	t.Setenv("CRITICAL_ENVIRONMENTS", "production, canary ,live,")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, []string{"production", "canary", "live"}, cfg.Team.ProductionAliases)
}

func TestLoadProductionAliasesBlankFallsBack(t *testing.T) {
	t.Setenv("CRITICAL_ENVIRONMENTS", " , ")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, []string{"production", "prod", "live"}, cfg.Team.ProductionAliases)
}

func TestLoadRosterFromEnv(t *testing.T) {
	t.Setenv("TEAM_L1_MEMBERS", `[{"user_id":42,"name":"Ada","max_tickets":3}]`)
	t.Setenv("TEAM_L2_MEMBERS", `[{"user_id":77,"name":"Linus","max_tickets":9}]`)

	cfg, err := Load()
	require.NoError(t, err)

	require.Len(t, cfg.Team.L1, 1)
	assert.Equal(t, 42, cfg.Team.L1[0].ID)
	assert.Equal(t, "Ada", cfg.Team.L1[0].Name)
	assert.Equal(t, domain.TierL1, cfg.Team.L1[0].Tier)
	assert.Equal(t, 3, cfg.Team.L1[0].MaxTickets)

	// L2 is always uncapped regardless of configured max_tickets.
	require.Len(t, cfg.Team.L2, 1)
	assert.Equal(t, 0, cfg.Team.L2[0].MaxTickets)
}

func TestLoadRosterValidation(t *testing.T) {
	tests := []struct {
		name    string
		roster  string
		wantErr string
	}{
		{
			name:    "malformed json",
			roster:  `not-json`,
			wantErr: "invalid TEAM_L1_MEMBERS",
		},
		{
			name:    "non-positive user id",
			roster:  `[{"user_id":0,"name":"Ada","max_tickets":3}]`,
			wantErr: "non-positive user_id",
		},
		{
			name:    "empty name",
			roster:  `[{"user_id":1,"name":"","max_tickets":3}]`,
			wantErr: "empty name",
		},
		{
			name:    "duplicate user id",
			roster:  `[{"user_id":1,"name":"Ada","max_tickets":3},{"user_id":1,"name":"Grace","max_tickets":3}]`,
			wantErr: "duplicate user_id",
		},
		{
			name:    "L1 requires capacity",
			roster:  `[{"user_id":1,"name":"Ada"}]`,
			wantErr: "positive max_tickets",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv("TEAM_L1_MEMBERS", tt.roster)

			_, err := Load()
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestMemberIDsRosterOrder(t *testing.T) {
	team := TeamConfig{
		L1: []domain.TeamMember{{ID: 3}, {ID: 1}},
		L2: []domain.TeamMember{{ID: 9}},
	}
	assert.Equal(t, []int{3, 1, 9}, team.MemberIDs())
}

func TestTeamEmpty(t *testing.T) {
	assert.True(t, TeamConfig{}.Empty())
	assert.False(t, TeamConfig{L2: []domain.TeamMember{{ID: 1}}}.Empty())
}

func TestTimeouts(t *testing.T) {
	app := AppConfig{RequestTimeoutSeconds: 120}
	assert.Equal(t, "2m0s", app.RequestTimeout().String())
	assert.Equal(t, "0s", AppConfig{}.RequestTimeout().String())

	assert.Equal(t, "10s", RedmineConfig{TimeoutSeconds: 10}.Timeout().String())
	assert.Equal(t, "1m30s", OllamaConfig{TimeoutSeconds: 90}.Timeout().String())
}
