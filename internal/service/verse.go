package service

import (
	"context"

	"github.com/aliskhannn/kural-wallpaper/internal/domain/entities"
)

type VerseService struct {
	repository VerseRepository
}

func NewVerseService(repository VerseRepository) *VerseService {
	return &VerseService{repository: repository}
}

// Select returns the verse with the given number, or a random one when number is 0.
func (s *VerseService) Select(ctx context.Context, number int) (*entities.Verse, error) {
	if number == 0 {
		return s.repository.GetRandom(ctx)
	}
	return s.repository.GetByNumber(ctx, number)
}

func (s *VerseService) GetAll(ctx context.Context) ([]*entities.Verse, error) {
	return s.repository.GetAll(ctx)
}
