package board

import (
	"github.com/memoriagame/memoria/internal/dependencies/random"
	"github.com/memoriagame/memoria/internal/model"
)

// Service generates game boards
type Service struct {
	random random.Random
}

// New creates a new board service
func New(random random.Random) *Service {
	return &Service{random: random}
}

// Generate produces a fresh board: half the tiles hold +model.TileValue,
// half hold the negated value, in uniformly random order. No tile starts
// revealed.
func (s *Service) Generate() []model.Tile {
	tiles := make([]model.Tile, 0, model.BoardSize)
	for i := 0; i < model.BoardSize/2; i++ {
		tiles = append(tiles, model.Tile{Value: model.TileValue})
	}
	for i := 0; i < model.BoardSize/2; i++ {
		tiles = append(tiles, model.Tile{Value: -model.TileValue})
	}

	// Fisher-Yates shuffle, swapping each index with a uniformly chosen
	// earlier-or-equal index
	for i := len(tiles) - 1; i > 0; i-- {
		j := s.random.Intn(i + 1)
		tiles[i], tiles[j] = tiles[j], tiles[i]
	}

	return tiles
}
