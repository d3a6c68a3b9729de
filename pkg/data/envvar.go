package data

import (
	"bytes"
	"io"
	"net/http"
	"os"
	"path"
	"strings"

	"github.com/joho/godotenv"
	"github.com/pkg/errors"
)

var ErrInvalidVariables = errors.New("variables must be a record, an uploadable or a blob")

type EnvVar struct {
	Name  string `json:"name"`
	Value string `json:"value"`
}

type VariablesKind int

const (
	VariablesKindInvalid VariablesKind = iota
	VariablesKindRecord
	VariablesKindUploadable
	VariablesKindBlob
)

func (k VariablesKind) String() string {
	switch k {
	case VariablesKindRecord:
		return "record"
	case VariablesKindUploadable:
		return "uploadable"
	case VariablesKindBlob:
		return "blob"
	}

	return "invalid"
}

const DEFAULT_UPLOAD_FILENAME = ".env"

// Variables holds exactly one of the accepted representations of the
// variables being imported: a name to value record, an uploadable stream
// in dotenv format or a blob of dotenv content.
type Variables struct {
	kind     VariablesKind
	record   map[string]string
	reader   io.Reader
	filename string
	blob     []byte
}

func RecordVariables(record map[string]string) Variables {
	if record == nil {
		record = map[string]string{}
	}

	return Variables{kind: VariablesKindRecord, record: record}
}

// UploadVariables wraps a stream of dotenv content. The stream is read at
// most once and closed after reading when it implements io.Closer.
func UploadVariables(r io.Reader, filename string) Variables {
	if filename == "" {
		filename = DEFAULT_UPLOAD_FILENAME
	}

	return Variables{kind: VariablesKindUploadable, reader: r, filename: filename}
}

func FileVariables(fpath string) (Variables, error) {
	f, err := os.Open(fpath)
	if err != nil {
		return Variables{}, errors.Wrapf(err, "fail to open %s", fpath)
	}

	return UploadVariables(f, path.Base(fpath)), nil
}

// ResponseVariables uses the body of an HTTP response as the uploadable,
// the response must have succeeded.
func ResponseVariables(res *http.Response) (Variables, error) {
	if res == nil || res.Body == nil {
		return Variables{}, errors.New("response has no body")
	}

	if res.StatusCode < 200 || res.StatusCode > 299 {
		res.Body.Close()
		return Variables{}, errors.Errorf("response failed with status code %d", res.StatusCode)
	}

	filename := DEFAULT_UPLOAD_FILENAME
	if res.Request != nil && res.Request.URL != nil {
		if base := path.Base(res.Request.URL.Path); base != "/" && base != "." {
			filename = base
		}
	}

	return UploadVariables(res.Body, filename), nil
}

func BlobVariables(blob []byte) Variables {
	if blob == nil {
		blob = []byte{}
	}

	return Variables{kind: VariablesKindBlob, blob: blob}
}

func (v Variables) Kind() VariablesKind {
	return v.kind
}

func (v Variables) Validate() error {
	switch v.kind {
	case VariablesKindRecord:
		if v.record == nil {
			return errors.Wrap(ErrInvalidVariables, "record is nil")
		}
	case VariablesKindUploadable:
		if v.reader == nil {
			return errors.Wrap(ErrInvalidVariables, "uploadable has no reader")
		}
	case VariablesKindBlob:
		if v.blob == nil {
			return errors.Wrap(ErrInvalidVariables, "blob is nil")
		}
	default:
		return ErrInvalidVariables
	}

	return nil
}

// Record returns the record when the variables were given as one.
func (v Variables) Record() (map[string]string, bool) {
	return v.record, v.kind == VariablesKindRecord
}

func (v Variables) Filename() string {
	if v.kind == VariablesKindBlob {
		return DEFAULT_UPLOAD_FILENAME
	}

	return v.filename
}

// Reader returns the dotenv content of an uploadable or a blob.
func (v Variables) Reader() (io.Reader, error) {
	switch v.kind {
	case VariablesKindUploadable:
		return v.reader, nil
	case VariablesKindBlob:
		return bytes.NewReader(v.blob), nil
	}

	return nil, errors.Wrapf(ErrInvalidVariables, "%s variables have no dotenv content", v.kind)
}

// Close releases the underlying stream of an uploadable, it is a no-op for
// every other kind.
func (v Variables) Close() error {
	if c, ok := v.reader.(io.Closer); ok && v.kind == VariablesKindUploadable {
		return c.Close()
	}

	return nil
}

// Resolve returns the variables as a record, parsing dotenv content when needed.
func (v Variables) Resolve() (map[string]string, error) {
	err := v.Validate()
	if err != nil {
		return nil, err
	}

	if v.kind == VariablesKindRecord {
		out := make(map[string]string, len(v.record))
		for k, val := range v.record {
			out[k] = val
		}
		return out, nil
	}

	r, err := v.Reader()
	if err != nil {
		return nil, err
	}
	defer v.Close()

	content, err := io.ReadAll(r)
	if err != nil {
		return nil, errors.Wrapf(err, "fail to read %s", v.Filename())
	}

	vars, err := parseDotenv(content)
	if err != nil {
		return nil, errors.Wrapf(err, "fail to parse dotenv content of %s", v.Filename())
	}

	return vars, nil
}

// parseDotenv keeps $VAR and ${VAR} references literal. Every $ is swapped
// for a rune absent from the content while godotenv parses it.
func parseDotenv(content []byte) (map[string]string, error) {
	if !bytes.ContainsRune(content, '$') {
		return godotenv.UnmarshalBytes(content)
	}

	placeholder := '\uE000'
	for bytes.ContainsRune(content, placeholder) {
		placeholder++
	}

	vars, err := godotenv.UnmarshalBytes(bytes.ReplaceAll(content, []byte("$"), []byte(string(placeholder))))
	if err != nil {
		return nil, err
	}

	for k, val := range vars {
		vars[k] = strings.ReplaceAll(val, string(placeholder), "$")
	}

	return vars, nil
}

type ImportParams struct {
	Variables Variables
	Override  *bool
}

func (p *ImportParams) ShouldOverride() bool {
	return p.Override != nil && *p.Override
}

type CreateParams struct {
	Name  string `json:"name"`
	Value string `json:"value"`
}

type UpdateParams struct {
	Value string `json:"value"`
}

func Bool(b bool) *bool {
	return &b
}
