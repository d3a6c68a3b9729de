package envvars

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/url"
	"strconv"

	"github.com/hashicorp/go-hclog"
	"github.com/pkg/errors"

	"github.com/ergomake/envform/internal/cloud"
	"github.com/ergomake/envform/pkg/data"
)

type cloudBackend struct {
	client *cloud.HTTPClient
}

var _ Backend = &cloudBackend{}

func NewCloud(client *cloud.HTTPClient) *cloudBackend {
	return &cloudBackend{client}
}

func envPath(project, env string) string {
	return fmt.Sprintf("/api/v1/projects/%s/envvars/%s", url.PathEscape(project), url.PathEscape(env))
}

func varPath(project, env, name string) string {
	return fmt.Sprintf("%s/%s", envPath(project, env), url.PathEscape(name))
}

func (cb *cloudBackend) ListVariables(ctx context.Context, project, env string) ([]*data.EnvVar, error) {
	url := envPath(project, env)

	var variables []*data.EnvVar
	err := cb.doJSON(ctx, http.MethodGet, url, nil, &variables, nil)
	if err != nil {
		return nil, errors.Wrapf(err, "fail to list variables of %s/%s", project, env)
	}

	sortVariables(variables)
	return variables, nil
}

func (cb *cloudBackend) ImportVariables(ctx context.Context, project, env string, params *data.ImportParams) error {
	err := params.Variables.Validate()
	if err != nil {
		return err
	}

	url := envPath(project, env) + "/import"

	if record, ok := params.Variables.Record(); ok {
		payload := struct {
			Variables map[string]string `json:"variables"`
			Override  *bool             `json:"override,omitempty"`
		}{record, params.Override}

		return errors.Wrap(cb.doJSON(ctx, http.MethodPost, url, payload, nil, nil), "fail to import variables")
	}

	defer params.Variables.Close()

	body, contentType, err := multipartBody(params)
	if err != nil {
		return errors.Wrap(err, "fail to build multipart import body")
	}

	hclog.FromContext(ctx).Debug(
		"Uploading variables",
		"project", project, "env", env,
		"kind", params.Variables.Kind().String(), "filename", params.Variables.Filename(),
	)

	req, err := cb.client.NewRequest(ctx, http.MethodPost, url, body)
	if err != nil {
		return errors.Wrap(err, "fail to create http request to cloud backend")
	}

	req.SetHeader("Content-Type", contentType)
	resp, err := cb.client.Do(req)
	if err != nil {
		return errors.Wrap(err, "fail to perform http request to cloud backend")
	}
	defer resp.Body.Close()

	return errors.Wrap(checkResponse(url, resp, nil), "fail to import variables")
}

func multipartBody(params *data.ImportParams) (io.Reader, string, error) {
	r, err := params.Variables.Reader()
	if err != nil {
		return nil, "", err
	}

	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)

	part, err := mw.CreateFormFile("variables", params.Variables.Filename())
	if err != nil {
		return nil, "", errors.Wrap(err, "fail to create variables form file")
	}

	_, err = io.Copy(part, r)
	if err != nil {
		return nil, "", errors.Wrap(err, "fail to read variables")
	}

	if params.Override != nil {
		err = mw.WriteField("override", strconv.FormatBool(*params.Override))
		if err != nil {
			return nil, "", errors.Wrap(err, "fail to write override field")
		}
	}

	err = mw.Close()
	if err != nil {
		return nil, "", errors.Wrap(err, "fail to close multipart writer")
	}

	return &buf, mw.FormDataContentType(), nil
}

func (cb *cloudBackend) CreateVariable(ctx context.Context, project, env string, params *data.CreateParams) error {
	err := cb.doJSON(ctx, http.MethodPost, envPath(project, env), params, nil, nil)
	if errors.Is(err, ErrVariableAlreadyExists) {
		return errors.Wrapf(err, "fail to create %s", params.Name)
	}

	return errors.Wrap(err, "fail to create variable")
}

func (cb *cloudBackend) RetrieveVariable(ctx context.Context, project, env, name string) (*data.EnvVar, error) {
	var body struct {
		Value string `json:"value"`
	}
	err := cb.doJSON(ctx, http.MethodGet, varPath(project, env, name), nil, &body, ErrVariableNotFound)
	if err != nil {
		return nil, errors.Wrapf(err, "fail to retrieve %s", name)
	}

	return &data.EnvVar{Name: name, Value: body.Value}, nil
}

func (cb *cloudBackend) UpdateVariable(ctx context.Context, project, env, name string, params *data.UpdateParams) error {
	err := cb.doJSON(ctx, http.MethodPut, varPath(project, env, name), params, nil, ErrVariableNotFound)
	return errors.Wrapf(err, "fail to update %s", name)
}

func (cb *cloudBackend) DeleteVariable(ctx context.Context, project, env, name string) error {
	err := cb.doJSON(ctx, http.MethodDelete, varPath(project, env, name), nil, nil, ErrVariableNotFound)
	return errors.Wrapf(err, "fail to delete %s", name)
}

// doJSON sends in as JSON and decodes the response into out. A 404 is
// reported as notFound when it is given.
func (cb *cloudBackend) doJSON(ctx context.Context, method, url string, in, out any, notFound error) error {
	var body io.Reader
	if in != nil {
		dataBytes, err := json.Marshal(in)
		if err != nil {
			return errors.Wrap(err, "fail to marshal request body to json")
		}
		body = bytes.NewReader(dataBytes)
	}

	req, err := cb.client.NewRequest(ctx, method, url, body)
	if err != nil {
		return errors.Wrap(err, "fail to create http request to cloud backend")
	}

	if in != nil {
		req.SetHeader("Content-Type", "application/json")
	}

	resp, err := cb.client.Do(req)
	if err != nil {
		return errors.Wrap(err, "fail to perform http request to cloud backend")
	}
	defer resp.Body.Close()

	err = checkResponse(url, resp, notFound)
	if err != nil {
		return err
	}

	if out == nil {
		return nil
	}

	err = json.NewDecoder(resp.Body).Decode(out)
	return errors.Wrap(err, "fail to decode JSON response")
}

func checkResponse(url string, resp *http.Response, notFound error) error {
	if resp.StatusCode >= 200 && resp.StatusCode <= 299 {
		return nil
	}

	switch {
	case resp.StatusCode == http.StatusNotFound && notFound != nil:
		return errors.Wrapf(notFound, "HTTP request to %s failed with status code %d", url, resp.StatusCode)
	case resp.StatusCode == http.StatusConflict:
		return errors.Wrapf(ErrVariableAlreadyExists, "HTTP request to %s failed with status code %d", url, resp.StatusCode)
	}

	return cloud.ResponseError(url, resp)
}
