package inmem

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/dekarrin/grammarq/internal/util"
	"github.com/dekarrin/grammarq/server/dao"
	"github.com/google/uuid"
)

func NewGrammarsRepository() *GrammarsRepository {
	return &GrammarsRepository{
		grammars: make(map[uuid.UUID]dao.Grammar),
	}
}

type GrammarsRepository struct {
	mtx      sync.RWMutex
	grammars map[uuid.UUID]dao.Grammar
}

func (repo *GrammarsRepository) Close() error {
	return nil
}

func (repo *GrammarsRepository) Create(ctx context.Context, g dao.Grammar) (dao.Grammar, error) {
	newUUID, err := uuid.NewRandom()
	if err != nil {
		return dao.Grammar{}, fmt.Errorf("could not generate ID: %w", err)
	}

	repo.mtx.Lock()
	defer repo.mtx.Unlock()

	g.ID = newUUID
	g.Created = time.Now()
	repo.grammars[g.ID] = g

	return g, nil
}

func (repo *GrammarsRepository) GetAll(ctx context.Context) ([]dao.Grammar, error) {
	return repo.filter(func(dao.Grammar) bool { return true }), nil
}

func (repo *GrammarsRepository) GetAllByOwner(ctx context.Context, owner uuid.UUID) ([]dao.Grammar, error) {
	return repo.filter(func(g dao.Grammar) bool { return g.Owner == owner }), nil
}

func (repo *GrammarsRepository) filter(keep func(dao.Grammar) bool) []dao.Grammar {
	repo.mtx.RLock()
	defer repo.mtx.RUnlock()

	var all []dao.Grammar
	for k := range repo.grammars {
		if keep(repo.grammars[k]) {
			all = append(all, repo.grammars[k])
		}
	}

	return util.SortBy(all, func(l, r dao.Grammar) bool {
		if l.Created.Equal(r.Created) {
			return l.ID.String() < r.ID.String()
		}
		return l.Created.Before(r.Created)
	})
}

func (repo *GrammarsRepository) GetByID(ctx context.Context, id uuid.UUID) (dao.Grammar, error) {
	repo.mtx.RLock()
	defer repo.mtx.RUnlock()

	g, ok := repo.grammars[id]
	if !ok {
		return dao.Grammar{}, dao.ErrNotFound
	}
	return g, nil
}

func (repo *GrammarsRepository) Delete(ctx context.Context, id uuid.UUID) (dao.Grammar, error) {
	repo.mtx.Lock()
	defer repo.mtx.Unlock()

	g, ok := repo.grammars[id]
	if !ok {
		return dao.Grammar{}, dao.ErrNotFound
	}
	delete(repo.grammars, id)
	return g, nil
}
