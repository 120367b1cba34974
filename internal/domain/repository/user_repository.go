package repository

import "github.com/jhoicas/farmacia-pms/internal/domain/entity"

// UserRepository define el puerto de persistencia para el personal (DIP).
type UserRepository interface {
	Create(user *entity.User) error
	GetByID(id string) (*entity.User, error)
	FindByEmail(email string) (*entity.User, error)
	List(limit, offset int) ([]*entity.User, error)
}
