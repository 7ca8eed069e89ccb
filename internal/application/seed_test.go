package application

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/oulia/oulia/gateway/internal/application/usecase"
	"github.com/oulia/oulia/gateway/internal/domain/service"
	"github.com/oulia/oulia/gateway/internal/infrastructure/auth"
	"github.com/oulia/oulia/gateway/internal/infrastructure/persistence"
	"github.com/oulia/oulia/gateway/internal/infrastructure/qrcode"
)

const fixture = `
host:
  email: demo@oulia.test
  password: demo-password
  first_name: Demo
  last_name: Host
properties:
  - name: Loft A
    address: 1 rue de la Paix
    city: Paris
    country: France
    equipments: [wifi, coffee machine]
    knowledge:
      - title: WiFi
        content: "Network LoftA, password 1234"
        category: wifi
    services:
      - name: Airport pickup
        paid: true
        price: 45
      - name: Late checkout
        available: false
    checkin:
      - step: 1
        title: Key box
        description: Code 0000 by the door
`

func seedUseCases(t *testing.T) (*usecase.AuthUseCase, *usecase.PropertyUseCase) {
	t.Helper()
	repos := persistence.NewMemoryRepositories()
	logger := zap.NewNop()
	cfg := service.DefaultEngineConfig()

	authUC := usecase.NewAuthUseCase(repos.Hosts, auth.NewBcrypt(4), auth.NewJWT("secret", time.Hour), nil, logger)
	props := usecase.NewPropertyUseCase(usecase.Repositories{
		Properties:    repos.Properties,
		Knowledge:     repos.Knowledge,
		Conversations: repos.Conversations,
		Issues:        repos.Issues,
		Notifications: repos.Notifications,
	}, qrcode.NewGenerator(64), "http://front.test", cfg, nil, logger)
	return authUC, props
}

func TestParseSeedFixture(t *testing.T) {
	f, err := ParseSeedFixture(strings.NewReader(fixture))
	require.NoError(t, err)
	assert.Equal(t, "demo@oulia.test", f.Host.Email)
	require.Len(t, f.Properties, 1)
	assert.Equal(t, []string{"wifi", "coffee machine"}, f.Properties[0].Equipments)
	require.NotNil(t, f.Properties[0].Services[1].Available)
	assert.False(t, *f.Properties[0].Services[1].Available)
}

func TestParseSeedFixture_Rejects(t *testing.T) {
	_, err := ParseSeedFixture(strings.NewReader("host:\n  email: a@b.c\n"))
	assert.Error(t, err, "missing password")

	_, err = ParseSeedFixture(strings.NewReader("host:\n  email: a@b.c\n  password: x\n  nickname: y\n"))
	assert.Error(t, err, "unknown key")
}

func TestSeed_CreatesCatalogue(t *testing.T) {
	authUC, props := seedUseCases(t)
	f, err := ParseSeedFixture(strings.NewReader(fixture))
	require.NoError(t, err)

	ctx := context.Background()
	res, err := Seed(ctx, authUC, props, f, zap.NewNop())
	require.NoError(t, err)
	require.Len(t, res.Properties, 1)
	assert.NotEmpty(t, res.Token)

	detail, err := props.Get(ctx, res.HostID, res.Properties[0].ID)
	require.NoError(t, err)
	assert.Len(t, detail.KnowledgeItems, 1)
	require.Len(t, detail.Services, 2)
	assert.Len(t, detail.CheckInSteps, 1)

	available := map[string]bool{}
	for _, s := range detail.Services {
		available[s.Name] = s.IsAvailable
	}
	assert.True(t, available["Airport pickup"])
	assert.False(t, available["Late checkout"])
}

func TestSeed_TwiceReusesHost(t *testing.T) {
	authUC, props := seedUseCases(t)
	f, err := ParseSeedFixture(strings.NewReader(fixture))
	require.NoError(t, err)

	ctx := context.Background()
	first, err := Seed(ctx, authUC, props, f, zap.NewNop())
	require.NoError(t, err)
	second, err := Seed(ctx, authUC, props, f, zap.NewNop())
	require.NoError(t, err)

	assert.Equal(t, first.HostID, second.HostID)
	list, err := props.List(ctx, first.HostID)
	require.NoError(t, err)
	assert.Len(t, list, 2)
}
