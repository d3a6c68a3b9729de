package efconfig

import (
	"net/url"
	"regexp"
	"strings"

	"github.com/hashicorp/go-multierror"
	"github.com/pkg/errors"
)

func Validate(ctx ConfigContext) error {
	var result *multierror.Error

	switch ctx.Type {
	case ContextTypeLocal:
		if ctx.Dir == "" {
			result = multierror.Append(result, errors.New("directory path cannot be empty"))
		}
	case ContextTypeS3:
		if ctx.Bucket == "" {
			result = multierror.Append(result, errors.New("S3 bucket name cannot be empty"))
		} else if !isValidS3Bucket(ctx.Bucket) {
			result = multierror.Append(result, errors.Errorf("invalid S3 bucket name: %s", ctx.Bucket))
		}

		if ctx.Region == "" {
			result = multierror.Append(result, errors.New("S3 bucket region cannot be empty"))
		}
	case ContextTypeRedis:
		if ctx.Addr == "" {
			result = multierror.Append(result, errors.New("redis address cannot be empty"))
		}
	case ContextTypeEtcd:
		if len(ctx.Endpoints) == 0 {
			result = multierror.Append(result, errors.New("at least one etcd endpoint is required"))
		}
	case ContextTypeCloud:
		if ctx.URL == "" {
			result = multierror.Append(result, errors.New("URL cannot be empty"))
		} else if !isValidURL(ctx.URL) {
			result = multierror.Append(result, errors.Errorf("invalid URL: %s", ctx.URL))
		}

		if ctx.Token == "" {
			if ctx.Email == "" {
				result = multierror.Append(result, errors.New("either token or email and password must be set"))
			} else if !isValidEmail(ctx.Email) {
				result = multierror.Append(result, errors.Errorf("invalid email: %s", ctx.Email))
			}

			if ctx.Email != "" && ctx.Password == "" {
				result = multierror.Append(result, errors.New("password cannot be empty"))
			}
		}
	default:
		return errors.Errorf("invalid context type %s, must be one of %s", ctx.Type, strings.Join(ContextTypes, ", "))
	}

	if _, err := ctx.GetTimeout(); err != nil {
		result = multierror.Append(result, err)
	}

	return result.ErrorOrNil()
}

var s3BucketPattern = regexp.MustCompile(`^[a-z0-9][a-z0-9.-]{1,61}[a-z0-9]$`)

func isValidS3Bucket(bucketName string) bool {
	return s3BucketPattern.MatchString(bucketName)
}

func isValidEmail(email string) bool {
	pattern := "^[a-zA-Z0-9._%+-]+@[a-zA-Z0-9.-]+\\.[a-zA-Z]{2,}$"
	match, _ := regexp.MatchString(pattern, email)
	return match
}

func isValidURL(u string) bool {
	parsed, err := url.Parse(u)
	return err == nil && parsed.Scheme != "" && parsed.Host != ""
}
