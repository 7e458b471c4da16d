package status

// Service exposes the Registry through the service lifecycle
type Service struct {
	registry *Registry
}

// NewService creates a status service with an empty registry
func NewService() *Service {
	return &Service{registry: NewRegistry()}
}

// Registry returns the underlying metrics registry
func (s *Service) Registry() *Registry {
	return s.registry
}

func (s *Service) Name() string           { return "status" }
func (s *Service) Dependencies() []string { return nil }
func (s *Service) Init(_ ...any) error    { return nil }
func (s *Service) Start() error           { return nil }
func (s *Service) Stop() error            { return nil }
