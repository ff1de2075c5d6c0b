package config

import (
	"context"
	"fmt"
	"path"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/ssm"
	"github.com/rs/zerolog/log"
)

// LoadSSM reads every parameter under parameterPath from AWS Systems Manager
// Parameter Store. The last path segment becomes the key, so
// /portfolio/prod/JWT_SECRET is returned as JWT_SECRET.
func LoadSSM(ctx context.Context, region, parameterPath string) (map[string]string, error) {
	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, awsconfig.WithRegion(region))
	if err != nil {
		return nil, fmt.Errorf("load aws config: %w", err)
	}
	return FetchParameters(ctx, ssm.NewFromConfig(awsCfg), parameterPath)
}

// FetchParameters pages through GetParametersByPath with decryption enabled.
func FetchParameters(ctx context.Context, client ssm.GetParametersByPathAPIClient, parameterPath string) (map[string]string, error) {
	if parameterPath == "" {
		return map[string]string{}, nil
	}

	paginator := ssm.NewGetParametersByPathPaginator(client, &ssm.GetParametersByPathInput{
		Path:           aws.String(parameterPath),
		Recursive:      aws.Bool(true),
		WithDecryption: aws.Bool(true),
	})

	params := make(map[string]string)
	for paginator.HasMorePages() {
		page, err := paginator.NextPage(ctx)
		if err != nil {
			return nil, fmt.Errorf("get parameters by path %s: %w", parameterPath, err)
		}
		for _, p := range page.Parameters {
			name := aws.ToString(p.Name)
			key := path.Base(strings.TrimSuffix(name, "/"))
			if key == "" || key == "." || key == "/" {
				continue
			}
			params[key] = aws.ToString(p.Value)
		}
	}

	log.Info().Str("path", parameterPath).Int("count", len(params)).Msg("Loaded parameters from SSM")
	return params, nil
}
