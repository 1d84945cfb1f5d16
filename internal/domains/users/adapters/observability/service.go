package observability

import (
	"context"
	"log/slog"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"
	nooptrace "go.opentelemetry.io/otel/trace/noop"

	userdomain "github.com/cafepos/cafe-api-server/internal/domains/users/domain"
	userports "github.com/cafepos/cafe-api-server/internal/domains/users/ports"
)

const tracerName = "github.com/cafepos/cafe-api-server/internal/domains/users/adapters/observability/service"

// Service decorates the staff account service with tracing, logging, and metrics.
type Service struct {
	inner   userports.Service
	tracer  trace.Tracer
	logger  *slog.Logger
	metrics serviceMetrics
}

type Option func(*Service)

func WithLogger(logger *slog.Logger) Option {
	return func(s *Service) {
		s.logger = logger
	}
}

func WithTracer(tr trace.Tracer) Option {
	return func(s *Service) {
		s.tracer = tr
	}
}

func WithMeter(m metric.Meter) Option {
	return func(s *Service) {
		s.metrics = newServiceMetrics(m)
	}
}

// New wraps the core service.
func New(inner userports.Service, opts ...Option) userports.Service {
	s := &Service{
		inner:   inner,
		tracer:  nooptrace.NewTracerProvider().Tracer(tracerName),
		metrics: newServiceMetrics(nil),
	}
	for _, opt := range opts {
		if opt != nil {
			opt(s)
		}
	}
	if s.tracer == nil {
		s.tracer = nooptrace.NewTracerProvider().Tracer(tracerName)
	}
	return s
}

func (s *Service) Register(ctx context.Context, username, password, fullName, role string) (*userdomain.User, error) {
	ctx, span := s.tracer.Start(ctx, "UserService.Register",
		trace.WithAttributes(attribute.String("user.username", username), attribute.String("user.role", role)))
	defer span.End()

	user, err := s.inner.Register(ctx, username, password, fullName, role)
	if err != nil {
		return nil, s.handleError(ctx, span, err, "failed to register user", slog.String("username", username))
	}
	s.logInfo(ctx, "user registered", slog.String("username", user.Username), slog.String("role", role))
	return user, nil
}

func (s *Service) GetByUsername(ctx context.Context, username string) (*userdomain.User, error) {
	ctx, span := s.tracer.Start(ctx, "UserService.GetByUsername",
		trace.WithAttributes(attribute.String("user.username", username)))
	defer span.End()

	user, err := s.inner.GetByUsername(ctx, username)
	if err != nil {
		return nil, s.handleError(ctx, span, err, "failed to load user", slog.String("username", username))
	}
	return user, nil
}

func (s *Service) List(ctx context.Context) ([]*userdomain.User, error) {
	ctx, span := s.tracer.Start(ctx, "UserService.List")
	defer span.End()

	users, err := s.inner.List(ctx)
	if err != nil {
		return nil, s.handleError(ctx, span, err, "failed to list users")
	}
	return users, nil
}

func (s *Service) Delete(ctx context.Context, username string) error {
	ctx, span := s.tracer.Start(ctx, "UserService.Delete",
		trace.WithAttributes(attribute.String("user.username", username)))
	defer span.End()

	if err := s.inner.Delete(ctx, username); err != nil {
		return s.handleError(ctx, span, err, "failed to delete user", slog.String("username", username))
	}
	s.logInfo(ctx, "user deleted", slog.String("username", username))
	return nil
}

func (s *Service) ChangePassword(ctx context.Context, username, password string) error {
	ctx, span := s.tracer.Start(ctx, "UserService.ChangePassword",
		trace.WithAttributes(attribute.String("user.username", username)))
	defer span.End()

	if err := s.inner.ChangePassword(ctx, username, password); err != nil {
		return s.handleError(ctx, span, err, "failed to change password", slog.String("username", username))
	}
	s.logInfo(ctx, "password changed", slog.String("username", username))
	return nil
}

func (s *Service) Login(ctx context.Context, username, password string) (string, error) {
	ctx, span := s.tracer.Start(ctx, "UserService.Login",
		trace.WithAttributes(attribute.String("user.username", username)))
	defer span.End()

	token, err := s.inner.Login(ctx, username, password)
	if err != nil {
		s.metrics.recordLogin(ctx, false)
		return "", s.handleError(ctx, span, err, "login failed", slog.String("username", username))
	}
	s.metrics.recordLogin(ctx, true)
	s.logInfo(ctx, "user logged in", slog.String("username", username))
	return token, nil
}

func (s *Service) Logout(ctx context.Context, username string) {
	ctx, span := s.tracer.Start(ctx, "UserService.Logout",
		trace.WithAttributes(attribute.String("user.username", username)))
	defer span.End()

	s.inner.Logout(ctx, username)
	s.logInfo(ctx, "user logged out", slog.String("username", username))
}

func (s *Service) Authenticate(ctx context.Context, token string) (*userdomain.User, error) {
	ctx, span := s.tracer.Start(ctx, "UserService.Authenticate")
	defer span.End()

	user, err := s.inner.Authenticate(ctx, token)
	if err != nil {
		if span != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
		}
		return nil, err
	}
	return user, nil
}

func (s *Service) logInfo(ctx context.Context, msg string, attrs ...slog.Attr) {
	if s.logger == nil {
		return
	}
	s.logger.LogAttrs(ctx, slog.LevelInfo, msg, attrs...)
}

func (s *Service) handleError(ctx context.Context, span trace.Span, err error, msg string, attrs ...slog.Attr) error {
	if span != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	}
	if s.logger != nil {
		attrs = append(attrs, slog.String("error", err.Error()))
		s.logger.LogAttrs(ctx, slog.LevelError, msg, attrs...)
	}
	return err
}

type serviceMetrics struct {
	logins metric.Int64Counter
}

func newServiceMetrics(m metric.Meter) serviceMetrics {
	if m == nil {
		return serviceMetrics{}
	}
	logins, _ := m.Int64Counter("users.service.logins", metric.WithDescription("Number of login attempts"))
	return serviceMetrics{logins: logins}
}

func (m serviceMetrics) recordLogin(ctx context.Context, success bool) {
	if m.logins != nil {
		m.logins.Add(ctx, 1, metric.WithAttributes(attribute.Bool("success", success)))
	}
}

var _ userports.Service = (*Service)(nil)
