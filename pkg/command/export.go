package command

import (
	"context"
	"encoding/json"
	"io"
	"sort"
	"strings"

	"github.com/hashicorp/go-hclog"
	"github.com/hashicorp/hcl/v2/hclsyntax"
	"github.com/hashicorp/hcl/v2/hclwrite"
	"github.com/joho/godotenv"
	"github.com/pkg/errors"
	"github.com/zclconf/go-cty/cty"
	"gopkg.in/yaml.v3"

	"github.com/ergomake/envform/pkg/envvars"
)

type ExportFormat string

const (
	ExportFormatDotenv ExportFormat = "dotenv"
	ExportFormatJSON   ExportFormat = "json"
	ExportFormatYAML   ExportFormat = "yaml"
	ExportFormatTFVars ExportFormat = "tfvars"
)

var ExportFormats = []ExportFormat{ExportFormatDotenv, ExportFormatJSON, ExportFormatYAML, ExportFormatTFVars}

const TFVarPrefix = "TF_VAR_"

type exportCommand struct {
	backend envvars.Backend
}

func NewExport(backend envvars.Backend) *exportCommand {
	return &exportCommand{backend}
}

func (c *exportCommand) Run(ctx context.Context, w io.Writer, project, env string, format ExportFormat) error {
	variables, err := c.backend.ListVariables(ctx, project, env)
	if err != nil {
		return errors.Wrap(err, "fail to list variables")
	}

	vars := envvars.ToMap(variables)

	var out []byte
	switch format {
	case ExportFormatDotenv:
		content, err := godotenv.Marshal(vars)
		if err != nil {
			return errors.Wrap(err, "fail to encode variables as dotenv")
		}
		if content != "" {
			content += "\n"
		}
		out = []byte(content)
	case ExportFormatJSON:
		out, err = json.MarshalIndent(vars, "", "  ")
		if err != nil {
			return errors.Wrap(err, "fail to encode variables as json")
		}
		out = append(out, '\n')
	case ExportFormatYAML:
		out, err = yaml.Marshal(vars)
		if err != nil {
			return errors.Wrap(err, "fail to encode variables as yaml")
		}
	case ExportFormatTFVars:
		out = encodeTFVars(ctx, vars)
	default:
		return errors.Errorf("unknown export format %s, must be one of %s", format, formatList())
	}

	_, err = w.Write(out)
	return errors.Wrap(err, "fail to write exported variables")
}

// encodeTFVars writes the TF_VAR_ prefixed variables as a terraform
// variables file, without the prefix.
func encodeTFVars(ctx context.Context, vars map[string]string) []byte {
	logger := hclog.FromContext(ctx)

	names := make([]string, 0, len(vars))
	for name := range vars {
		names = append(names, name)
	}
	sort.Strings(names)

	f := hclwrite.NewEmptyFile()
	body := f.Body()
	for _, name := range names {
		if !strings.HasPrefix(name, TFVarPrefix) {
			logger.Debug("Skipping variable without terraform prefix", "name", name)
			continue
		}

		ident := strings.TrimPrefix(name, TFVarPrefix)
		if !hclsyntax.ValidIdentifier(ident) {
			logger.Debug("Skipping variable that is not a valid terraform identifier", "name", name)
			continue
		}

		body.SetAttributeValue(ident, cty.StringVal(vars[name]))
	}

	return f.Bytes()
}

func formatList() string {
	formats := make([]string, len(ExportFormats))
	for i, f := range ExportFormats {
		formats[i] = string(f)
	}

	return strings.Join(formats, ", ")
}

func ParseExportFormat(s string) (ExportFormat, error) {
	for _, f := range ExportFormats {
		if string(f) == strings.ToLower(s) {
			return f, nil
		}
	}

	return "", errors.Errorf("unknown export format %s, must be one of %s", s, formatList())
}
