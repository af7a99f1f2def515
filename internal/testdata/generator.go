package testdata

import (
	"context"
	"math/rand/v2"

	"github.com/google/uuid"

	"github.com/jask/lunarhome/internal/database/repository"
)

var samples = []string{
	"water the plants",
	"renew passport",
	"call the dentist",
	"pick up dry cleaning",
	"back up laptop",
	"book train tickets",
	"pay electricity bill",
	"return library books",
	"fix bike light",
	"write weekly notes",
}

// Todos returns n sample todos. The same seed always yields the same set;
// roughly one in four is marked done.
func Todos(n int, seed uint64) []repository.Todo {
	r := rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))
	out := make([]repository.Todo, 0, n)
	for i := 0; i < n; i++ {
		out = append(out, repository.Todo{
			ID:        uuid.NewString(),
			Text:      samples[r.IntN(len(samples))],
			Done:      r.IntN(4) == 0,
			SortOrder: i,
		})
	}
	return out
}

// Seed appends n sample todos after the existing ones.
func Seed(ctx context.Context, repo *repository.TodoRepo, n int, seed uint64) error {
	base, err := repo.NextSortOrder(ctx)
	if err != nil {
		return err
	}
	for _, t := range Todos(n, seed) {
		t.SortOrder += base
		if err := repo.Insert(ctx, t); err != nil {
			return err
		}
	}
	return nil
}
