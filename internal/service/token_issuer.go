package service

import (
	"time"

	"authapi/internal/entity"
	"authapi/internal/utils"
)

// JWTTokenIssuer maps users onto access token claims.
type JWTTokenIssuer struct {
	Manager *utils.JWTManager
}

func (j JWTTokenIssuer) IssueToken(user entity.User) (string, time.Duration, error) {
	if j.Manager == nil {
		return "", 0, utils.ErrInvalidToken
	}
	codAssessor := ""
	if user.CodAssessor != nil {
		codAssessor = *user.CodAssessor
	}
	return j.Manager.IssueAccessToken(utils.TokenSubject{
		UserID:      user.ID,
		Username:    user.Username,
		Email:       user.Email,
		Role:        user.Role,
		CodAssessor: codAssessor,
	})
}
