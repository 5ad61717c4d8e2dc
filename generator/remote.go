package generator

import (
	"context"
	"errors"

	"linkedin_post_automation/remote"
)

// RemoteService calls the hosted generation endpoint.
type RemoteService struct {
	client   *remote.Client
	endpoint string
}

func NewRemoteService(client *remote.Client, endpoint string) (*RemoteService, error) {
	if client == nil {
		return nil, errors.New("remote client is required")
	}
	if endpoint == "" {
		return nil, errors.New("generation endpoint is required")
	}
	return &RemoteService{client: client, endpoint: endpoint}, nil
}

func (s *RemoteService) Generate(ctx context.Context, req Request) (Response, error) {
	var resp Response
	if _, err := s.client.PostJSON(ctx, s.endpoint, req, &resp); err != nil {
		return Response{}, err
	}
	return resp, nil
}
