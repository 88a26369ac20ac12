package service

import (
	"context"
	"errors"
	"time"

	"gestaomesas/internal/config"
	"gestaomesas/internal/dto"
	"gestaomesas/internal/model"
	"gestaomesas/internal/repository"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

type AuthService interface {
	Login(ctx context.Context, req dto.LoginRequest) (*dto.LoginResponse, error)
	Refresh(ctx context.Context, refreshToken string) (*dto.LoginResponse, error)
	CriarColaborador(ctx context.Context, req dto.CriarColaboradorRequest) (*dto.ColaboradorResponse, error)
	ListarColaboradores(ctx context.Context, incluirInativos bool) ([]dto.ColaboradorResponse, error)
	AtualizarColaborador(ctx context.Context, id uuid.UUID, req dto.AtualizarColaboradorRequest) (*dto.ColaboradorResponse, error)
	DesativarColaborador(ctx context.Context, id uuid.UUID) error
	ReativarColaborador(ctx context.Context, id uuid.UUID) error
}

type authService struct {
	repo repository.ColaboradorRepository
	cfg  *config.Config
}

func NewAuthService(repo repository.ColaboradorRepository, cfg *config.Config) AuthService {
	return &authService{repo: repo, cfg: cfg}
}

func (s *authService) Login(ctx context.Context, req dto.LoginRequest) (*dto.LoginResponse, error) {
	user, err := s.repo.FindByUsername(ctx, req.Username)
	if err != nil || user == nil || !user.Ativo {
		return nil, errors.New("credenciais inválidas")
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)); err != nil {
		return nil, errors.New("credenciais inválidas")
	}

	return s.tokenPair(user)
}

func (s *authService) Refresh(ctx context.Context, refreshToken string) (*dto.LoginResponse, error) {
	token, err := jwt.Parse(refreshToken, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, jwt.ErrSignatureInvalid
		}
		return []byte(s.cfg.JWTSecret), nil
	})
	if err != nil || !token.Valid {
		return nil, errors.New("refresh token inválido ou expirado")
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return nil, errors.New("claims inválidos")
	}
	userIDStr, ok := claims["user_id"].(string)
	if !ok {
		return nil, errors.New("token mal formado")
	}
	uid, err := uuid.Parse(userIDStr)
	if err != nil {
		return nil, errors.New("token mal formado")
	}

	user, err := s.repo.FindByID(ctx, uid)
	if err != nil || user == nil || !user.Ativo {
		return nil, errors.New("colaborador não encontrado ou inativo")
	}

	return s.tokenPair(user)
}

func (s *authService) tokenPair(user *model.Colaborador) (*dto.LoginResponse, error) {
	accessToken, err := s.generateToken(user, time.Duration(s.cfg.JWTExpirationHours)*time.Hour)
	if err != nil {
		return nil, err
	}
	refreshToken, err := s.generateToken(user, time.Duration(s.cfg.JWTRefreshHours)*time.Hour)
	if err != nil {
		return nil, err
	}
	return &dto.LoginResponse{
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
		TokenType:    "bearer",
		ExpiresIn:    s.cfg.JWTExpirationHours * 3600,
		User:         colaboradorToResponse(user),
	}, nil
}

func (s *authService) CriarColaborador(ctx context.Context, req dto.CriarColaboradorRequest) (*dto.ColaboradorResponse, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), 12)
	if err != nil {
		return nil, err
	}
	rotaID, err := parseUUIDPtr(req.RotaID)
	if err != nil {
		return nil, errors.New("rota_id inválido")
	}
	user := &model.Colaborador{
		Username:     req.Username,
		Nome:         req.Nome,
		Email:        req.Email,
		PasswordHash: string(hash),
		Rol:          req.Rol,
		RotaID:       rotaID,
		Ativo:        true,
	}
	if err := s.repo.Create(ctx, user); err != nil {
		return nil, err
	}
	resp := colaboradorToResponse(user)
	return &resp, nil
}

func (s *authService) ListarColaboradores(ctx context.Context, incluirInativos bool) ([]dto.ColaboradorResponse, error) {
	var users []model.Colaborador
	var err error
	if incluirInativos {
		users, err = s.repo.ListAll(ctx)
	} else {
		users, err = s.repo.ListAtivos(ctx)
	}
	if err != nil {
		return nil, err
	}
	resp := make([]dto.ColaboradorResponse, len(users))
	for i := range users {
		resp[i] = colaboradorToResponse(&users[i])
	}
	return resp, nil
}

func (s *authService) AtualizarColaborador(ctx context.Context, id uuid.UUID, req dto.AtualizarColaboradorRequest) (*dto.ColaboradorResponse, error) {
	user, err := s.repo.FindByID(ctx, id)
	if err != nil || user == nil {
		return nil, errors.New("colaborador não encontrado")
	}
	if req.Nome != "" {
		user.Nome = req.Nome
	}
	if req.Email != nil {
		user.Email = req.Email
	}
	if req.Rol != "" {
		user.Rol = req.Rol
	}
	if req.RotaID != nil {
		rotaID, err := parseUUIDPtr(req.RotaID)
		if err != nil {
			return nil, errors.New("rota_id inválido")
		}
		user.RotaID = rotaID
	}
	if req.Password != "" {
		hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), 12)
		if err != nil {
			return nil, err
		}
		user.PasswordHash = string(hash)
	}
	if err := s.repo.Update(ctx, user); err != nil {
		return nil, err
	}
	resp := colaboradorToResponse(user)
	return &resp, nil
}

func (s *authService) DesativarColaborador(ctx context.Context, id uuid.UUID) error {
	return s.repo.Desativar(ctx, id)
}

func (s *authService) ReativarColaborador(ctx context.Context, id uuid.UUID) error {
	return s.repo.Reativar(ctx, id)
}

func (s *authService) generateToken(user *model.Colaborador, duration time.Duration) (string, error) {
	claims := jwt.MapClaims{
		"user_id":  user.ID.String(),
		"username": user.Username,
		"rol":      user.Rol,
		"exp":      time.Now().Add(duration).Unix(),
		"iat":      time.Now().Unix(),
	}
	if user.RotaID != nil {
		claims["rota_id"] = user.RotaID.String()
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(s.cfg.JWTSecret))
}

func colaboradorToResponse(u *model.Colaborador) dto.ColaboradorResponse {
	var rotaID *string
	if u.RotaID != nil {
		id := u.RotaID.String()
		rotaID = &id
	}
	return dto.ColaboradorResponse{
		ID:       u.ID.String(),
		Username: u.Username,
		Nome:     u.Nome,
		Email:    u.Email,
		Rol:      u.Rol,
		RotaID:   rotaID,
		Ativo:    u.Ativo,
	}
}

// parseUUIDPtr parses an optional uuid string; nil and empty pass through.
func parseUUIDPtr(s *string) (*uuid.UUID, error) {
	if s == nil || *s == "" {
		return nil, nil
	}
	id, err := uuid.Parse(*s)
	if err != nil {
		return nil, err
	}
	return &id, nil
}
