package rest

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"

	"github.com/tarnlab/tarn/pkg/api/types/catalog"
	"github.com/tarnlab/tarn/pkg/api/types/datasets"
	"github.com/tarnlab/tarn/pkg/lazy"
)

func (c *client) CreateDataset(ctx context.Context, name string, notes string) (datasets.Detail, error) {
	reqBody, err := json.Marshal(struct {
		Name  string `json:"name"`
		Notes string `json:"notes,omitempty"`
	}{Name: name, Notes: notes})
	if err != nil {
		return datasets.Detail{}, err
	}

	req, err := http.NewRequestWithContext(
		ctx, http.MethodPost, c.apipath("datasets"), bytes.NewReader(reqBody),
	)
	if err != nil {
		return datasets.Detail{}, err
	}
	req.Header.Add("Content-Type", "application/json")

	resp, err := c.httpclient.Do(req)
	if err != nil {
		return datasets.Detail{}, err
	}
	defer resp.Body.Close()

	res := datasets.Detail{}
	if err := unmarshalJsonResponse(
		resp, &res,
		MessageFor{
			Status4xx: fmt.Sprintf("creating dataset is rejected by server (status code = %d)", resp.StatusCode),
			Status5xx: fmt.Sprintf("server error (status code = %d)", resp.StatusCode),
		},
	); err != nil {
		return datasets.Detail{}, err
	}

	return res, nil
}

func (c *client) GetDataset(ctx context.Context, datasetId string) (datasets.Detail, error) {
	req, err := http.NewRequestWithContext(
		ctx, http.MethodGet, c.apipath("datasets", datasetId), nil,
	)
	if err != nil {
		return datasets.Detail{}, err
	}

	resp, err := c.httpclient.Do(req)
	if err != nil {
		return datasets.Detail{}, err
	}
	defer resp.Body.Close()

	res := datasets.Detail{}
	if err := unmarshalJsonResponse(
		resp, &res,
		MessageFor{
			Status4xx: fmt.Sprintf("dataset %s is not found (status code = %d)", datasetId, resp.StatusCode),
			Status5xx: fmt.Sprintf("server error (status code = %d)", resp.StatusCode),
		},
	); err != nil {
		return datasets.Detail{}, err
	}

	return res, nil
}

func (c *client) FindDatasets(name string) *lazy.Seq[datasets.Summary] {
	query := url.Values{}
	if name != "" {
		query.Set("name", name)
	}
	return lazy.NewSeq(c.pageSize, fetchPaged[datasets.Summary](c, c.apipath("datasets"), query))
}

func (c *client) PutCatalog(ctx context.Context, datasetId string, cat catalog.Catalog) error {
	reqBody, err := json.Marshal(cat)
	if err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(
		ctx, http.MethodPut, c.apipath("datasets", datasetId, "catalog"), bytes.NewReader(reqBody),
	)
	if err != nil {
		return err
	}
	req.Header.Add("Content-Type", "application/json")

	resp, err := c.httpclient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	return unmarshalResponseDiscardingPayload(
		resp,
		MessageFor{
			Status4xx: fmt.Sprintf("catalog is rejected by server (status code = %d)", resp.StatusCode),
			Status5xx: fmt.Sprintf("server error (status code = %d)", resp.StatusCode),
		},
	)
}

func (c *client) GetCatalog(ctx context.Context, datasetId string) (catalog.Catalog, error) {
	req, err := http.NewRequestWithContext(
		ctx, http.MethodGet, c.apipath("datasets", datasetId, "catalog"), nil,
	)
	if err != nil {
		return catalog.Catalog{}, err
	}

	resp, err := c.httpclient.Do(req)
	if err != nil {
		return catalog.Catalog{}, err
	}
	defer resp.Body.Close()

	res := catalog.Catalog{}
	if err := unmarshalJsonResponse(
		resp, &res,
		MessageFor{
			Status4xx: fmt.Sprintf("catalog of dataset %s is not found (status code = %d)", datasetId, resp.StatusCode),
			Status5xx: fmt.Sprintf("server error (status code = %d)", resp.StatusCode),
		},
	); err != nil {
		return catalog.Catalog{}, err
	}

	return res, nil
}
