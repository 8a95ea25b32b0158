package services

import (
	"context"
	"fmt"

	appconfig "recipebook/config"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/rekognition"
	"github.com/aws/aws-sdk-go-v2/service/rekognition/types"
)

// ImageScreener flags uploaded images for review. Screening is advisory:
// controllers log flagged labels and carry on, an upload is never rejected.
type ImageScreener interface {
	Screen(ctx context.Context, image []byte) ([]string, error)
}

var flaggedLabels = map[string]bool{
	"Weapon":              true,
	"Alcohol":             true,
	"Smoking":             true,
	"Explicit Nudity":     true,
	"Violence":            true,
	"Visually Disturbing": true,
}

type ModerationService struct {
	client *rekognition.Client
}

func NewModerationService(ctx context.Context, cfg *appconfig.Config) (*ModerationService, error) {
	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, awsconfig.WithRegion(cfg.S3Region))
	if err != nil {
		return nil, fmt.Errorf("unable to load AWS config for Rekognition: %w", err)
	}
	return &ModerationService{client: rekognition.NewFromConfig(awsCfg)}, nil
}

// Screen runs label detection and returns the labels on the flag list.
func (m *ModerationService) Screen(ctx context.Context, image []byte) ([]string, error) {
	out, err := m.client.DetectLabels(ctx, &rekognition.DetectLabelsInput{
		Image:         &types.Image{Bytes: image},
		MaxLabels:     aws.Int32(10),
		MinConfidence: aws.Float32(75),
	})
	if err != nil {
		return nil, err
	}

	var flagged []string
	for _, l := range out.Labels {
		if l.Name != nil && flaggedLabels[*l.Name] {
			flagged = append(flagged, *l.Name)
		}
	}
	return flagged, nil
}
