package gqs

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/dekarrin/grammarq/internal/compare"
	"github.com/dekarrin/grammarq/internal/compile"
	"github.com/dekarrin/grammarq/internal/produce"
	"github.com/dekarrin/grammarq/server/dao"
	"github.com/dekarrin/grammarq/server/serr"
	"github.com/google/uuid"
)

// Verdict is whether one word is in the language of a grammar.
type Verdict struct {
	Word     string
	Accepted bool
}

// CreateGrammar compiles the given grammar source and stores it along with the
// result, owned by the user with ID owner. Returns the stored grammar.
//
// The returned error, if non-nil, will return true for various calls to
// errors.Is depending on what caused the error. If the source does not
// compile, it will match serr.ErrBadGrammar, and errors.As can be used to get
// the ebnf.SyntaxError if there was one. If the name or source is blank, it
// will match serr.ErrBadArgument. If the error occured due to an unexpected
// problem with the DB, it will match serr.ErrDB.
func (svc Service) CreateGrammar(ctx context.Context, owner uuid.UUID, name, source string) (dao.Grammar, error) {
	if strings.TrimSpace(name) == "" {
		return dao.Grammar{}, serr.New("name cannot be blank", serr.ErrBadArgument)
	}
	if strings.TrimSpace(source) == "" {
		return dao.Grammar{}, serr.New("source cannot be blank", serr.ErrBadArgument)
	}

	compiled, err := svc.Compiler.Source(ctx, name, source)
	if err != nil {
		return dao.Grammar{}, serr.New("", err, serr.ErrBadGrammar)
	}

	g, err := svc.DB.Grammars().Create(ctx, dao.Grammar{
		Name:   name,
		Source: source,
		CNF:    compiled.CNF,
		Owner:  owner,
	})
	if err != nil {
		return dao.Grammar{}, serr.WrapDB("could not create grammar", err)
	}

	return g, nil
}

// GetGrammar returns the grammar with the given ID.
//
// The returned error, if non-nil, will return true for various calls to
// errors.Is depending on what caused the error. If no grammar with that ID
// exists, it will match serr.ErrNotFound. If the error occured due to an
// unexpected problem with the DB, it will match serr.ErrDB. Finally, if the ID
// is not valid, it will match serr.ErrBadArgument.
func (svc Service) GetGrammar(ctx context.Context, id string) (dao.Grammar, error) {
	uuidID, err := uuid.Parse(id)
	if err != nil {
		return dao.Grammar{}, serr.New("ID is not valid", serr.ErrBadArgument)
	}

	g, err := svc.DB.Grammars().GetByID(ctx, uuidID)
	if err != nil {
		if errors.Is(err, dao.ErrNotFound) {
			return dao.Grammar{}, serr.ErrNotFound
		}
		return dao.Grammar{}, serr.WrapDB("could not get grammar", err)
	}

	return g, nil
}

// GetAllGrammars returns every stored grammar in the order they were created.
// If owner is not uuid.Nil, only the grammars uploaded by that user are
// returned.
func (svc Service) GetAllGrammars(ctx context.Context, owner uuid.UUID) ([]dao.Grammar, error) {
	var all []dao.Grammar
	var err error

	if owner == uuid.Nil {
		all, err = svc.DB.Grammars().GetAll(ctx)
	} else {
		all, err = svc.DB.Grammars().GetAllByOwner(ctx, owner)
	}
	if err != nil {
		return nil, serr.WrapDB("", err)
	}

	return all, nil
}

// DeleteGrammar deletes the grammar with the given ID on behalf of user by.
// Only the owner of a grammar or an admin may delete it. Returns the deleted
// grammar.
//
// The returned error, if non-nil, will return true for various calls to
// errors.Is depending on what caused the error. If by may not delete the
// grammar, it will match serr.ErrPermissions. If no grammar with that ID
// exists, it will match serr.ErrNotFound. If the error occured due to an
// unexpected problem with the DB, it will match serr.ErrDB. Finally, if the ID
// is not valid, it will match serr.ErrBadArgument.
func (svc Service) DeleteGrammar(ctx context.Context, id string, by dao.User) (dao.Grammar, error) {
	g, err := svc.GetGrammar(ctx, id)
	if err != nil {
		return dao.Grammar{}, err
	}

	if g.Owner != by.ID && by.Role != dao.Admin {
		return dao.Grammar{}, serr.New(fmt.Sprintf("user %q does not own grammar", by.Username), serr.ErrPermissions)
	}

	deleted, err := svc.DB.Grammars().Delete(ctx, g.ID)
	if err != nil {
		if errors.Is(err, dao.ErrNotFound) {
			return dao.Grammar{}, serr.ErrNotFound
		}
		return dao.Grammar{}, serr.WrapDB("could not delete grammar", err)
	}

	return deleted, nil
}

// CheckWords checks each of words against the grammar with the given ID. The
// verdicts are in the same order as words.
//
// The returned error, if non-nil, will match the same errors as GetGrammar.
// It will also match serr.ErrBadArgument if no words are given.
func (svc Service) CheckWords(ctx context.Context, id string, words []string) ([]Verdict, error) {
	if len(words) == 0 {
		return nil, serr.New("at least one word must be given", serr.ErrBadArgument)
	}

	g, err := svc.GetGrammar(ctx, id)
	if err != nil {
		return nil, err
	}

	verdicts := make([]Verdict, len(words))
	for i := range words {
		verdicts[i] = Verdict{
			Word:     words[i],
			Accepted: g.CNF.Accepts(compile.Word(words[i])),
		}
	}

	return verdicts, nil
}

// Words returns the first limit words of the language of the grammar with the
// given ID, shortest first. The returned bool is whether there are no more
// words after the returned ones.
//
// The returned error, if non-nil, will match the same errors as GetGrammar.
// It will also match serr.ErrBadArgument if limit is out of range.
func (svc Service) Words(ctx context.Context, id string, limit int) ([]string, bool, error) {
	var words []string
	done, err := svc.StreamWords(ctx, id, limit, func(w string) error {
		words = append(words, w)
		return nil
	})
	return words, done, err
}

// StreamWords calls emit with each of the first limit words of the language
// of the grammar with the given ID, shortest first. It stops early if emit
// returns an error or ctx is done. The returned bool is whether the language
// ran out of words.
//
// The returned error, if non-nil, will match the same errors as Words, or will
// be the error that stopped the stream.
func (svc Service) StreamWords(ctx context.Context, id string, limit int, emit func(word string) error) (bool, error) {
	if err := checkLimit(limit); err != nil {
		return false, err
	}

	g, err := svc.GetGrammar(ctx, id)
	if err != nil {
		return false, err
	}

	p := produce.New(g.CNF)
	for i := 0; i < limit; i++ {
		if err := ctx.Err(); err != nil {
			return false, err
		}

		w, ok := p.Next()
		if !ok {
			return true, nil
		}
		if err := emit(w); err != nil {
			return false, err
		}
	}

	return p.Done(), nil
}

// Compare compares the first limit words of the grammars with IDs first and
// second.
//
// The returned error, if non-nil, will match the same errors as GetGrammar
// for either grammar. It will also match serr.ErrBadArgument if limit is out
// of range.
func (svc Service) Compare(ctx context.Context, first, second string, limit int) (compare.Comparison, error) {
	if err := checkLimit(limit); err != nil {
		return compare.Comparison{}, err
	}

	g1, err := svc.GetGrammar(ctx, first)
	if err != nil {
		return compare.Comparison{}, fmt.Errorf("first: %w", err)
	}
	g2, err := svc.GetGrammar(ctx, second)
	if err != nil {
		return compare.Comparison{}, fmt.Errorf("second: %w", err)
	}

	return compare.Grammars(g1.CNF, g2.CNF, limit), nil
}

func checkLimit(limit int) error {
	if limit < 1 || limit > MaxWordLimit {
		return serr.New(fmt.Sprintf("limit must be between 1 and %d", MaxWordLimit), serr.ErrBadArgument)
	}
	return nil
}
