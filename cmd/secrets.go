package main

import (
	"context"
	"fmt"

	"github.com/Vtdarling/student-sympo/api"
	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/ssm"
)

const sessionSecretParamName = "/student-sympo/session-secret"

func getSessionSecret(ctx context.Context, env api.Environment) ([]byte, error) {
	if env == api.LOCAL {
		return []byte(getEnvOrDefault("SESSION_SECRET", "local-dev-secret")), nil
	}

	cfg, err := config.LoadDefaultConfig(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to get aws config: %w", err)
	}

	ssmClient := ssm.NewFromConfig(cfg)

	paramName := getEnvOrDefault("SESSION_SECRET_SSM_PARAM", sessionSecretParamName)
	resp, err := ssmClient.GetParameter(ctx, &ssm.GetParameterInput{
		Name:           aws.String(paramName),
		WithDecryption: aws.Bool(true),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to get session secret from SSM: %w", err)
	}
	if resp.Parameter == nil || resp.Parameter.Value == nil {
		return nil, fmt.Errorf("session secret parameter %q has no value", paramName)
	}

	return []byte(*resp.Parameter.Value), nil
}
