package application

import (
	"context"
	"fmt"
	"io"

	"go.uber.org/zap"
	"gopkg.in/yaml.v3"

	"github.com/oulia/oulia/gateway/internal/application/usecase"
	"github.com/oulia/oulia/gateway/internal/domain/entity"
	apperrors "github.com/oulia/oulia/gateway/pkg/errors"
)

// SeedFixture is a demo host with its properties, loaded from YAML.
type SeedFixture struct {
	Host       SeedHost       `yaml:"host"`
	Properties []SeedProperty `yaml:"properties"`
}

type SeedHost struct {
	Email     string `yaml:"email"`
	Password  string `yaml:"password"`
	FirstName string `yaml:"first_name"`
	LastName  string `yaml:"last_name"`
	Phone     string `yaml:"phone"`
}

type SeedProperty struct {
	Name          string   `yaml:"name"`
	Description   string   `yaml:"description"`
	Address       string   `yaml:"address"`
	City          string   `yaml:"city"`
	Country       string   `yaml:"country"`
	Equipments    []string `yaml:"equipments"`
	AIPrompt      string   `yaml:"ai_prompt"`
	AITone        string   `yaml:"ai_tone"`
	AIPersonality string   `yaml:"ai_personality"`

	Knowledge []struct {
		Title    string `yaml:"title"`
		Content  string `yaml:"content"`
		Category string `yaml:"category"`
	} `yaml:"knowledge"`

	Services []struct {
		Name        string  `yaml:"name"`
		Description string  `yaml:"description"`
		Available   *bool   `yaml:"available"`
		Paid        bool    `yaml:"paid"`
		Price       float64 `yaml:"price"`
	} `yaml:"services"`

	CheckIn []struct {
		Step        int    `yaml:"step"`
		Title       string `yaml:"title"`
		Description string `yaml:"description"`
	} `yaml:"checkin"`
}

// ParseSeedFixture decodes a fixture. Unknown keys are rejected so typos
// surface instead of silently seeding empty fields.
func ParseSeedFixture(r io.Reader) (*SeedFixture, error) {
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)

	var f SeedFixture
	if err := dec.Decode(&f); err != nil {
		return nil, fmt.Errorf("decode fixture: %w", err)
	}
	if f.Host.Email == "" || f.Host.Password == "" {
		return nil, fmt.Errorf("fixture host needs an email and a password")
	}
	return &f, nil
}

// SeedResult lists what Seed created.
type SeedResult struct {
	HostID     string
	Token      string
	Properties []*entity.Property
}

// Seed writes the fixture through the regular use cases. An already
// registered host is signed in instead, so seeding twice adds properties
// to the same account.
func Seed(ctx context.Context, authUC *usecase.AuthUseCase, props *usecase.PropertyUseCase, f *SeedFixture, logger *zap.Logger) (*SeedResult, error) {
	session, err := authUC.Register(ctx, usecase.RegisterInput{
		Email:     f.Host.Email,
		Password:  f.Host.Password,
		FirstName: f.Host.FirstName,
		LastName:  f.Host.LastName,
		Phone:     f.Host.Phone,
	})
	if apperrors.IsAlreadyExists(err) {
		session, err = authUC.Login(ctx, f.Host.Email, f.Host.Password)
	}
	if err != nil {
		return nil, fmt.Errorf("seed host %s: %w", f.Host.Email, err)
	}

	res := &SeedResult{HostID: session.Host.ID, Token: session.Token}
	for _, sp := range f.Properties {
		p, err := seedProperty(ctx, props, session.Host.ID, sp)
		if err != nil {
			return res, fmt.Errorf("seed property %q: %w", sp.Name, err)
		}
		res.Properties = append(res.Properties, p)
		logger.Info("Seeded property",
			zap.String("property_id", p.ID),
			zap.String("name", p.Name),
			zap.String("access_link", p.AccessLink),
		)
	}
	return res, nil
}

func seedProperty(ctx context.Context, props *usecase.PropertyUseCase, hostID string, sp SeedProperty) (*entity.Property, error) {
	p, err := props.Create(ctx, hostID, entity.PropertySpec{
		Name:          sp.Name,
		Description:   sp.Description,
		Address:       sp.Address,
		City:          sp.City,
		Country:       sp.Country,
		Equipment:     sp.Equipments,
		AIPrompt:      sp.AIPrompt,
		AITone:        sp.AITone,
		AIPersonality: sp.AIPersonality,
	})
	if err != nil {
		return nil, err
	}

	for _, k := range sp.Knowledge {
		if _, err := props.AddKnowledgeItem(ctx, hostID, p.ID, k.Title, k.Content, k.Category); err != nil {
			return nil, err
		}
	}
	for _, s := range sp.Services {
		available := true
		if s.Available != nil {
			available = *s.Available
		}
		if _, err := props.AddService(ctx, hostID, p.ID, usecase.ServiceInput{
			Name:        s.Name,
			Description: s.Description,
			IsAvailable: available,
			IsPaid:      s.Paid,
			Price:       s.Price,
		}); err != nil {
			return nil, err
		}
	}
	for _, c := range sp.CheckIn {
		if _, err := props.AddCheckInStep(ctx, hostID, p.ID, c.Step, c.Title, c.Description); err != nil {
			return nil, err
		}
	}
	return p, nil
}
