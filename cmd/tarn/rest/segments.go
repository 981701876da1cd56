package rest

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/tarnlab/tarn/pkg/api/types/segments"
	"github.com/tarnlab/tarn/pkg/lazy"
)

func (c *client) CreateSegment(ctx context.Context, datasetId string, name string) (segments.Detail, error) {
	reqBody, err := json.Marshal(struct {
		Name string `json:"name"`
	}{Name: name})
	if err != nil {
		return segments.Detail{}, err
	}

	req, err := http.NewRequestWithContext(
		ctx, http.MethodPost, c.apipath("datasets", datasetId, "segments"), bytes.NewReader(reqBody),
	)
	if err != nil {
		return segments.Detail{}, err
	}
	req.Header.Add("Content-Type", "application/json")

	resp, err := c.httpclient.Do(req)
	if err != nil {
		return segments.Detail{}, err
	}
	defer resp.Body.Close()

	res := segments.Detail{}
	if err := unmarshalJsonResponse(
		resp, &res,
		MessageFor{
			Status4xx: fmt.Sprintf("creating segment is rejected by server (status code = %d)", resp.StatusCode),
			Status5xx: fmt.Sprintf("server error (status code = %d)", resp.StatusCode),
		},
	); err != nil {
		return segments.Detail{}, err
	}

	return res, nil
}

func (c *client) FindSegments(datasetId string) *lazy.Seq[segments.Summary] {
	return lazy.NewSeq(
		c.pageSize,
		fetchPaged[segments.Summary](c, c.apipath("datasets", datasetId, "segments"), nil),
	)
}
