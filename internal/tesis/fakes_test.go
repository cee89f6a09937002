package tesis_test

import (
	"context"
	"strings"

	"github.com/tesisarchive/tesis-service/internal/autores"
	"github.com/tesisarchive/tesis-service/internal/tesis"
)

type insertCall struct {
	cmd     tesis.DepositCommand
	archivo []byte
}

type fakeStore struct {
	existing  map[int]bool
	theses    []tesis.Tesis
	download  map[int][]byte
	insertErr error
	updateErr error
	deleteErr error
	inserts   []insertCall
	updates   []tesis.UpdateCommand
	deleted   []int
}

func (f *fakeStore) List(ctx context.Context) ([]tesis.Tesis, error) {
	return f.theses, nil
}

func (f *fakeStore) Find(ctx context.Context, id int) (*tesis.Tesis, error) {
	for _, t := range f.theses {
		if t.ID == id {
			return &t, nil
		}
	}
	return nil, tesis.ErrNotFound
}

func (f *fakeStore) Search(ctx context.Context, fragment string) ([]tesis.Tesis, error) {
	matches := make([]tesis.Tesis, 0)
	for _, t := range f.theses {
		if strings.Contains(strings.ToLower(t.Nombre), strings.ToLower(fragment)) {
			matches = append(matches, t)
		}
	}
	if len(matches) == 0 {
		return nil, tesis.ErrNotFound
	}
	return matches, nil
}

func (f *fakeStore) Exists(ctx context.Context, id int) (bool, error) {
	return f.existing[id], nil
}

func (f *fakeStore) Insert(ctx context.Context, cmd tesis.DepositCommand, archivo []byte) error {
	if f.insertErr != nil {
		return f.insertErr
	}
	f.inserts = append(f.inserts, insertCall{cmd, append([]byte(nil), archivo...)})
	return nil
}

func (f *fakeStore) Download(ctx context.Context, id int) ([]byte, error) {
	if data, ok := f.download[id]; ok && len(data) > 0 {
		return data, nil
	}
	return nil, tesis.ErrNotFound
}

func (f *fakeStore) Update(ctx context.Context, id int, cmd tesis.UpdateCommand) error {
	if f.updateErr != nil {
		return f.updateErr
	}
	f.updates = append(f.updates, cmd)
	return nil
}

func (f *fakeStore) Delete(ctx context.Context, id int) error {
	if f.deleteErr != nil {
		return f.deleteErr
	}
	f.deleted = append(f.deleted, id)
	return nil
}

type fakeAutores struct {
	createErr error
	created   []autores.CreateCommand
}

func (f *fakeAutores) List(ctx context.Context) ([]autores.Asociacion, error) { return nil, nil }

func (f *fakeAutores) Find(ctx context.Context, id int) (*autores.Asociacion, error) {
	return nil, autores.ErrNotFound
}

func (f *fakeAutores) Create(ctx context.Context, cmd autores.CreateCommand) (*autores.Asociacion, error) {
	if f.createErr != nil {
		return nil, f.createErr
	}
	f.created = append(f.created, cmd)
	return &autores.Asociacion{ID: len(f.created), IDEstudiante: cmd.IDEstudiante, IDTesis: cmd.IDTesis}, nil
}

func (f *fakeAutores) Delete(ctx context.Context, id int) error { return nil }

type fakeEngine struct {
	text  string
	err   error
	calls int
}

func (f *fakeEngine) Recognize(ctx context.Context, imagePath string) (string, error) {
	f.calls++
	return f.text, f.err
}

type fakeSynthesizer struct {
	output []byte
	err    error
	texts  []string
}

func (f *fakeSynthesizer) Render(text string) ([]byte, error) {
	if f.err != nil {
		return nil, f.err
	}
	f.texts = append(f.texts, text)
	return f.output, nil
}
