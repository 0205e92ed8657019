package application

import (
	"context"
	"fmt"

	"github.com/sirupsen/logrus"
	"go.mongodb.org/mongo-driver/mongo"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"golang.org/x/crypto/bcrypt"

	"github.com/DaneshVerma/CitySettel/authorization"
	"github.com/DaneshVerma/CitySettel/domain"
	"github.com/DaneshVerma/CitySettel/errors"
)

type AuthService struct {
	users  domain.UserStore
	tokens *authorization.TokenManager
	logger *logrus.Logger
	tracer trace.Tracer
}

func NewAuthService(users domain.UserStore, tokens *authorization.TokenManager, logger *logrus.Logger, tracer trace.Tracer) *AuthService {
	return &AuthService{
		users:  users,
		tokens: tokens,
		logger: logger,
		tracer: tracer,
	}
}

// Register creates a local account. The email must not already be bound;
// the password is stored as a bcrypt hash only.
func (service *AuthService) Register(ctx context.Context, request *domain.SignupRequest) (*domain.User, string, error) {
	ctx, span := service.tracer.Start(ctx, "AuthService.Register")
	defer span.End()

	existing, err := service.users.GetByEmail(ctx, request.Email)
	if err != nil && err != mongo.ErrNoDocuments {
		span.SetStatus(codes.Error, err.Error())
		return nil, "", err
	}
	if existing != nil {
		return nil, "", fmt.Errorf(errors.UserAlreadyExists)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(request.Password), bcrypt.DefaultCost)
	if err != nil {
		span.SetStatus(codes.Error, err.Error())
		return nil, "", err
	}

	role := request.Role
	if role == "" {
		role = domain.RoleConsumer
	}

	user := &domain.User{
		FullName: request.FullName,
		Email:    request.Email,
		Password: string(hash),
		Role:     role,
		Phone:    request.Phone,
		City:     request.City,
	}
	if role == domain.RoleVendor {
		user.BusinessName = request.BusinessName
		user.BusinessType = request.BusinessType
		user.BusinessAddress = request.BusinessAddress
		user.BusinessDescription = request.BusinessDescription
		user.VerificationStatus = domain.VerificationPending
	}

	saved, err := service.users.Register(ctx, user)
	if err != nil {
		span.SetStatus(codes.Error, err.Error())
		return nil, "", err
	}

	token, err := service.tokens.Generate(saved)
	if err != nil {
		span.SetStatus(codes.Error, err.Error())
		return nil, "", err
	}

	service.logger.WithField("email", saved.Email).Info("user registered")
	return saved, token, nil
}

// Login verifies the password against the stored hash. Unknown email and
// wrong password are indistinguishable to the caller.
func (service *AuthService) Login(ctx context.Context, email, password string) (*domain.User, string, error) {
	ctx, span := service.tracer.Start(ctx, "AuthService.Login")
	defer span.End()

	user, err := service.users.GetByEmail(ctx, email)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, "", fmt.Errorf(errors.InvalidCredentials)
		}
		span.SetStatus(codes.Error, err.Error())
		return nil, "", err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(password)); err != nil {
		return nil, "", fmt.Errorf(errors.InvalidCredentials)
	}

	token, err := service.tokens.Generate(user)
	if err != nil {
		span.SetStatus(codes.Error, err.Error())
		return nil, "", err
	}

	return user, token, nil
}

// FederatedLogin looks the profile up by email or provider id and treats a
// hit as login, a miss as registration. No password is set in the
// registration path.
func (service *AuthService) FederatedLogin(ctx context.Context, profile *domain.FederatedProfile) (*domain.User, string, error) {
	ctx, span := service.tracer.Start(ctx, "AuthService.FederatedLogin")
	defer span.End()

	user, err := service.users.GetByEmail(ctx, profile.Email)
	if err == mongo.ErrNoDocuments {
		user, err = service.users.GetByGoogleID(ctx, profile.ID)
	}
	if err != nil && err != mongo.ErrNoDocuments {
		span.SetStatus(codes.Error, err.Error())
		return nil, "", err
	}

	if user == nil || err == mongo.ErrNoDocuments {
		user = &domain.User{
			FullName: domain.FullName{
				FirstName: profile.GivenName,
				LastName:  profile.FamilyName,
			},
			Email:    profile.Email,
			GoogleID: profile.ID,
			Role:     domain.RoleConsumer,
		}
		user, err = service.users.Register(ctx, user)
		if err != nil {
			span.SetStatus(codes.Error, err.Error())
			return nil, "", err
		}
		service.logger.WithField("email", user.Email).Info("user registered via google")
	}

	token, err := service.tokens.Generate(user)
	if err != nil {
		span.SetStatus(codes.Error, err.Error())
		return nil, "", err
	}

	return user, token, nil
}
