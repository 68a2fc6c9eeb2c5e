package gormstore

import (
	"errors"

	"gorm.io/gorm"

	"github.com/mcoot/playtracker/internal/model"
)

// UnitOfWork groups reads and writes against the store into one transaction.
// It is only valid inside the Store.Do callback that created it.
type UnitOfWork struct {
	tx *gorm.DB
}

// Users returns a query scoped to the user table
func (u *UnitOfWork) Users() *gorm.DB {
	return u.tx.Model(&model.User{})
}

// Add inserts a new user and fills in its ID.
// The account date must already be set.
func (u *UnitOfWork) Add(user *model.User) error {
	if user.Antiquity.IsZero() {
		return model.ErrMissingAntiquity
	}
	return u.tx.Create(user).Error
}

// Delete removes the user with the given ID
func (u *UnitOfWork) Delete(id model.UserID) error {
	result := u.tx.Where("id = ?", id).Delete(&model.User{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return model.ErrUserNotFound
	}
	return nil
}

// UserByID looks up a user by primary key
func (u *UnitOfWork) UserByID(id model.UserID) (*model.User, error) {
	var user model.User
	if err := u.Users().Where("id = ?", id).First(&user).Error; err != nil {
		return nil, notFound(err)
	}
	return &user, nil
}

// UserByName returns the first user with the given name
func (u *UnitOfWork) UserByName(name string) (*model.User, error) {
	var user model.User
	if err := u.Users().Where("name = ?", name).Order("id").First(&user).Error; err != nil {
		return nil, notFound(err)
	}
	return &user, nil
}

// CountByName returns how many users carry the given name
func (u *UnitOfWork) CountByName(name string) (int64, error) {
	var count int64
	err := u.Users().Where("name = ?", name).Count(&count).Error
	return count, err
}

// ListUsers returns every user ordered by ID
func (u *UnitOfWork) ListUsers() ([]model.User, error) {
	var users []model.User
	if err := u.Users().Order("id").Find(&users).Error; err != nil {
		return nil, err
	}
	return users, nil
}

// AdjustRanking adds delta to the user's ranking in a single UPDATE
func (u *UnitOfWork) AdjustRanking(id model.UserID, delta int) error {
	return u.increment(id, "ranking", delta)
}

// IncrementPlays adds one play to the user's counter for game in a single UPDATE
func (u *UnitOfWork) IncrementPlays(id model.UserID, game model.Game) error {
	return u.increment(id, game.Column(), 1)
}

func (u *UnitOfWork) increment(id model.UserID, column string, delta int) error {
	result := u.Users().
		Where("id = ?", id).
		UpdateColumn(column, gorm.Expr(column+" + ?", delta))
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return model.ErrUserNotFound
	}
	return nil
}

func notFound(err error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return model.ErrUserNotFound
	}
	return err
}
