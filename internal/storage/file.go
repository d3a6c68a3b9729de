package storage

import (
	"context"
	"encoding/json"
	"os"
	"path"

	"github.com/hashicorp/go-hclog"
	"github.com/lithammer/shortuuid/v3"
	"github.com/pkg/errors"
)

type fileStorage struct {
	fpath string
}

var _ FileLike = &fileStorage{}

func NewFileStorage(fpath string) *fileStorage {
	return &fileStorage{fpath}
}

func (fls *fileStorage) Load(ctx context.Context, v any) error {
	hclog.FromContext(ctx).Debug("Reading variables file", "path", fls.fpath)

	raw, err := os.ReadFile(fls.fpath)
	if errors.Is(err, os.ErrNotExist) {
		return nil
	}

	if err != nil {
		return errors.Wrapf(err, "fail to read %s", fls.fpath)
	}

	err = json.Unmarshal(raw, v)
	return errors.Wrapf(err, "fail to parse variables out of %s", fls.fpath)
}

func (fls *fileStorage) Save(ctx context.Context, v any) error {
	hclog.FromContext(ctx).Debug("Writting variables to file", "path", fls.fpath)

	data, err := json.Marshal(v)
	if err != nil {
		return errors.Wrap(err, "fail to marshal variables")
	}

	dir := path.Dir(fls.fpath)
	err = os.MkdirAll(dir, 0755)
	if err != nil {
		return errors.Wrapf(err, "fail to create directory %s", dir)
	}

	tmp := path.Join(dir, "."+path.Base(fls.fpath)+"."+shortuuid.New())
	err = os.WriteFile(tmp, data, 0600)
	if err != nil {
		return errors.Wrap(err, "fail to write temporary file")
	}

	err = os.Rename(tmp, fls.fpath)
	if err != nil {
		os.Remove(tmp)
		return errors.Wrap(err, "fail to move temporary file into place")
	}

	return nil
}
