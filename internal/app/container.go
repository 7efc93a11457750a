package app

import (
	"context"
	"fmt"

	"github.com/doeshing/aish/internal/application/doctor"
	"github.com/doeshing/aish/internal/application/loop"
	"github.com/doeshing/aish/internal/application/prompt"
	"github.com/doeshing/aish/internal/domain"
	"github.com/doeshing/aish/internal/infrastructure/ai"
	"github.com/doeshing/aish/internal/infrastructure/config"
	contextcollector "github.com/doeshing/aish/internal/infrastructure/context"
	"github.com/doeshing/aish/internal/infrastructure/executor"
	"github.com/doeshing/aish/internal/infrastructure/security"
	"github.com/doeshing/aish/internal/pkg/logger"
	"github.com/doeshing/aish/internal/ports"
)

// Container wires up application services with infrastructure adapters.
// Configuration is not loaded here so that config and init work before a file exists.
type Container struct {
	ConfigProvider ports.ConfigProvider
	ConfigLoader   *config.FileLoader
	Environment    *contextcollector.EnvCollector
	Gate           *security.Gate
	Executor       *executor.LocalExecutor
	Client         *ai.Client
	DoctorService  *doctor.Service
	Logger         *logger.ZapLogger
}

// BuildContainer constructs the dependency graph.
func BuildContainer(_ context.Context, verbose bool) (*Container, error) {
	cfgLoader := config.NewFileLoader("")
	log := logger.New(verbose)
	collector := contextcollector.NewEnvCollector()
	gate := security.NewGate()
	localExecutor := executor.NewLocalExecutor()
	client := ai.NewClient()
	interpreter, _ := localExecutor.Interpreter()

	doctorService := &doctor.Service{
		ConfigProvider: cfgLoader,
		Gate:           gate,
		Environment:    collector,
		Prober:         client,
		Interpreter:    interpreter,
	}

	return &Container{
		ConfigProvider: cfgLoader,
		ConfigLoader:   cfgLoader,
		Environment:    collector,
		Gate:           gate,
		Executor:       localExecutor,
		Client:         client,
		DoctorService:  doctorService,
		Logger:         log,
	}, nil
}

// NewLoopService builds the loop for a loaded config. Presentation collaborators
// are supplied by the caller.
func (c *Container) NewLoopService(cfg domain.Config, confirmer ports.Confirmer, reporter ports.Reporter) (*loop.Service, error) {
	builder, err := prompt.NewBuilder(cfg.Locale)
	if err != nil {
		return nil, fmt.Errorf("prompt builder: %w", err)
	}
	return &loop.Service{
		Config:      cfg,
		Environment: c.Environment,
		Builder:     builder,
		Invoker:     c.Client,
		Gate:        c.Gate,
		Executor:    c.Executor,
		Confirmer:   confirmer,
		Reporter:    reporter,
		Logger:      c.Logger,
		Messages:    prompt.Messages(cfg.Locale),
	}, nil
}
