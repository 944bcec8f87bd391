package auth

import (
	"context"
	"strings"

	"github.com/jhoicas/stocktransfer-api/internal/application/dto"
	"github.com/jhoicas/stocktransfer-api/internal/domain"
	"github.com/jhoicas/stocktransfer-api/internal/domain/entity"
	"github.com/jhoicas/stocktransfer-api/internal/domain/rbac"
	"github.com/jhoicas/stocktransfer-api/internal/domain/repository"
	"github.com/jhoicas/stocktransfer-api/pkg/jwt"
	"github.com/jhoicas/stocktransfer-api/pkg/logger"
	"github.com/jhoicas/stocktransfer-api/pkg/password"
)

// JWTConfig configuración para generación de tokens.
type JWTConfig struct {
	Secret     string
	ExpMinutes int
	Issuer     string
}

// AuthUseCase casos de uso de autenticación: login, resolución del actor y /me.
type AuthUseCase struct {
	userRepo repository.UserRepository
	jwtCfg   JWTConfig
	log      *logger.Logger
}

// NewAuthUseCase construye el caso de uso de auth.
func NewAuthUseCase(userRepo repository.UserRepository, jwtCfg JWTConfig, log *logger.Logger) *AuthUseCase {
	if log == nil {
		log = logger.Nop()
	}
	return &AuthUseCase{userRepo: userRepo, jwtCfg: jwtCfg, log: log.Component("auth")}
}

// Login verifica email/password, genera JWT y retorna token + usuario.
// Email desconocido y password incorrecto devuelven el mismo error.
func (uc *AuthUseCase) Login(ctx context.Context, in dto.LoginRequest) (*dto.LoginResponse, error) {
	email := strings.ToLower(strings.TrimSpace(in.Email))
	user, err := uc.userRepo.GetByEmail(ctx, email)
	if err != nil {
		return nil, err
	}
	if user == nil || !password.Check(in.Password, user.PasswordHash) {
		uc.log.Warn().Str("email", email).Msg("login rejected")
		return nil, domain.ErrInvalidCredentials
	}
	if !user.IsActive() {
		return nil, domain.ErrInactiveAccount
	}
	warehouseID := ""
	if user.WarehouseID != nil {
		warehouseID = *user.WarehouseID
	}
	token, err := jwt.Generate(uc.jwtCfg.Secret, user.ID, string(user.Role), warehouseID, uc.jwtCfg.Issuer, uc.jwtCfg.ExpMinutes)
	if err != nil {
		return nil, err
	}
	uc.log.Info().Str("user_id", user.ID).Str("role", string(user.Role)).Msg("login ok")
	return &dto.LoginResponse{
		Token:     token,
		ExpiresIn: uc.jwtCfg.ExpMinutes * 60,
		User:      *toUserResponse(user),
	}, nil
}

// ResolveActor carga el usuario del token y construye su identidad de autorización.
// El rol y la bodega se leen del almacenamiento, no del token.
func (uc *AuthUseCase) ResolveActor(ctx context.Context, userID string) (rbac.Actor, error) {
	user, err := uc.userRepo.GetByID(ctx, userID)
	if err != nil {
		return rbac.Actor{}, err
	}
	if user == nil {
		return rbac.Actor{}, domain.ErrUnauthorized
	}
	if !user.IsActive() {
		return rbac.Actor{}, domain.ErrInactiveAccount
	}
	return user.Actor(), nil
}

// Me devuelve el usuario autenticado con sus permisos y rutas navegables.
func (uc *AuthUseCase) Me(ctx context.Context, actor rbac.Actor) (*dto.MeResponse, error) {
	user, err := uc.userRepo.GetByID(ctx, actor.UserID)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, domain.ErrUserNotFound
	}
	grants := rbac.Grants(user.Role)
	perms := make([]string, 0, len(grants))
	for _, p := range grants {
		perms = append(perms, p.String())
	}
	return &dto.MeResponse{
		User:        *toUserResponse(user),
		Permissions: perms,
		Routes:      Routes(user.Role, user.WarehouseID),
	}, nil
}

// Routes convierte las secciones accesibles del rol al DTO de navegación.
func Routes(role rbac.Role, warehouseID *string) []dto.RouteDTO {
	routes := rbac.AccessibleRoutes(role, warehouseID)
	out := make([]dto.RouteDTO, 0, len(routes))
	for _, r := range routes {
		out = append(out, dto.RouteDTO{Section: string(r.Section), Path: r.Path})
	}
	return out
}

func toUserResponse(u *entity.User) *dto.UserResponse {
	if u == nil {
		return nil
	}
	return &dto.UserResponse{
		ID:          u.ID,
		Email:       u.Email,
		Name:        u.Name,
		Role:        string(u.Role),
		WarehouseID: u.WarehouseID,
		Status:      u.Status,
		CreatedAt:   u.CreatedAt,
		UpdatedAt:   u.UpdatedAt,
	}
}
