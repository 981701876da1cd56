package rest

import (
	"context"
	"crypto/tls"
	"crypto/x509"
	"encoding/base64"
	"fmt"
	"io"
	"log"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	tprof "github.com/tarnlab/tarn/cmd/tarn/config/profiles"
	"github.com/tarnlab/tarn/pkg/api/types/catalog"
	"github.com/tarnlab/tarn/pkg/api/types/data"
	"github.com/tarnlab/tarn/pkg/api/types/datasets"
	"github.com/tarnlab/tarn/pkg/api/types/frames"
	"github.com/tarnlab/tarn/pkg/api/types/ident"
	"github.com/tarnlab/tarn/pkg/api/types/misc/epochtime"
	"github.com/tarnlab/tarn/pkg/api/types/segments"
	"github.com/tarnlab/tarn/pkg/lazy"
	"github.com/tarnlab/tarn/pkg/utils"
)

type TarnClient interface {
	// CreateDataset registers a new dataset.
	CreateDataset(ctx context.Context, name string, notes string) (datasets.Detail, error)

	// GetDataset fetches one dataset by its id.
	GetDataset(ctx context.Context, datasetId string) (datasets.Detail, error)

	// FindDatasets lists datasets, optionally filtered by name.
	//
	// The listing is lazy. Nothing is fetched until the returned sequence
	// is read; reads take their own context.
	FindDatasets(name string) *lazy.Seq[datasets.Summary]

	// PutCatalog sets the label catalog of a dataset.
	PutCatalog(ctx context.Context, datasetId string, cat catalog.Catalog) error

	// GetCatalog fetches the label catalog of a dataset.
	GetCatalog(ctx context.Context, datasetId string) (catalog.Catalog, error)

	// CreateSegment registers a new segment in a dataset.
	CreateSegment(ctx context.Context, datasetId string, name string) (segments.Detail, error)

	// FindSegments lists the segments of a dataset, lazily.
	FindSegments(datasetId string) *lazy.Seq[segments.Summary]

	// ListFrames lists the frames of a segment, lazily.
	//
	// Frames come back with Remote units. Each unit's download URL
	// resolves, on first use, against the segment's url-table listing;
	// the table page covering the frame is fetched at most once.
	ListFrames(datasetId string, segmentName string) *lazy.Seq[*frames.Frame]

	// PostFrame registers a frame in a segment.
	//
	// Exactly one of the frame's own id and timestamp orders the frame in
	// the segment; the other is the platform's to assign. Violating that
	// fails with ErrFrameKey. Returns the frame id the platform stored.
	PostFrame(
		ctx context.Context, datasetId string, segmentName string,
		frame *frames.Frame, timestamp *epochtime.Seconds,
	) (ident.FrameID, error)

	// UploadFile streams a local unit's content into a segment, at the
	// unit's target remote path.
	//
	// It returns at once; watch the returned Progress for completion. The
	// result is the platform's record of the stored file.
	UploadFile(
		ctx context.Context, datasetId string, segmentName string, unit *data.Local,
	) Progress[data.Wire]

	// Download fetches a remote unit's content, resolving its URL first if
	// needed, and calls handler with the content stream.
	//
	// When the server sends an x-checksum-md5 trailer, the content is
	// verified against it; a mismatch is reported as ErrChecksumUnmatch
	// after handler returns.
	Download(ctx context.Context, unit *data.Remote, handler func(io.Reader) error) error
}

type client struct {
	httpclient *http.Client
	api        string
	pageSize   int
	logger     *log.Logger
	dec        *ident.Decoder
}

type ClientOption func(*client) *client

// WithLogger replaces the client's logger. The legacy-id warning of the
// client's frame-id decoder goes there too.
func WithLogger(l *log.Logger) ClientOption {
	return func(c *client) *client {
		c.logger = l
		return c
	}
}

// WithPageSize sets how many records listings fetch per request.
func WithPageSize(n int) ClientOption {
	return func(c *client) *client {
		if 0 < n {
			c.pageSize = n
		}
		return c
	}
}

// NewClient creates a Tarn client for a profile.
//
// If the profile is invalid, ErrProfileInvalid is returned.
func NewClient(prof *tprof.TarnProfile, options ...ClientOption) (TarnClient, error) {
	if err := prof.Verify(); err != nil {
		return nil, err
	}
	httpclient := new(http.Client)

	if prof.Cert.CA != "" {
		hc, err := trustCa(httpclient, []string{prof.Cert.CA})
		if err != nil {
			return nil, err
		}
		httpclient = hc
	}

	c := &client{
		httpclient: httpclient,
		api:        strings.TrimSuffix(prof.ApiRoot, "/"),
		pageSize:   lazy.DefaultPageSize,
		logger:     log.Default(),
	}
	for _, opt := range options {
		c = opt(c)
	}
	c.dec = ident.NewDecoder(ident.WithWarn(c.logger.Printf))

	return c, nil
}

// build URL with path
func (c *client) apipath(path ...string) string {
	path = utils.Map(path, func(p string) string {
		return strings.TrimPrefix(strings.TrimSuffix(p, "/"), "/")
	})

	return strings.Join(append([]string{c.api}, path...), "/")
}

func trustCa(hc *http.Client, cacerts []string) (*http.Client, error) {
	if len(cacerts) <= 0 {
		return hc, nil
	}

	if hc.Transport == nil {
		hc.Transport = http.DefaultTransport
	}

	tran, ok := hc.Transport.(*http.Transport)
	if !ok {
		return nil, fmt.Errorf("failed to add ca cert")
	}
	tran = tran.Clone()

	tcc := tran.TLSClientConfig.Clone()
	if tcc == nil {
		tcc = &tls.Config{}
	}

	rootcas := tcc.RootCAs
	if rootcas == nil {
		rootcas = x509.NewCertPool()
		tcc.RootCAs = rootcas
	}
	for _, ca := range cacerts {
		bin, err := base64.StdEncoding.DecodeString(ca)
		if err != nil {
			return nil, err
		}

		if !rootcas.AppendCertsFromPEM(bin) {
			return nil, fmt.Errorf("failed to add cert")
		}
	}

	tran.TLSClientConfig = tcc
	hc.Transport = tran
	return hc, nil
}

// pageOf is the envelope paged listing endpoints respond with.
type pageOf[T any] struct {
	Items      []T `json:"items"`
	Offset     int `json:"offset"`
	RecordSize int `json:"recordSize"`
	TotalCount int `json:"totalCount"`
}

// fetchPaged adapts one paged listing endpoint to a lazy.FetchPage.
func fetchPaged[T any](c *client, path string, query url.Values) lazy.FetchPage[T] {
	return func(ctx context.Context, offset int, limit int) ([]T, int, error) {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, path, nil)
		if err != nil {
			return nil, 0, err
		}

		q := req.URL.Query()
		for key, values := range query {
			for _, v := range values {
				q.Add(key, v)
			}
		}
		q.Set("offset", strconv.Itoa(offset))
		q.Set("limit", strconv.Itoa(limit))
		req.URL.RawQuery = q.Encode()

		resp, err := c.httpclient.Do(req)
		if err != nil {
			return nil, 0, err
		}
		defer resp.Body.Close()

		page := pageOf[T]{}
		if err := unmarshalJsonResponse(
			resp, &page,
			MessageFor{
				Status4xx: fmt.Sprintf("listing is rejected by server (status code = %d)", resp.StatusCode),
				Status5xx: fmt.Sprintf("server error (status code = %d)", resp.StatusCode),
			},
		); err != nil {
			return nil, 0, err
		}

		return page.Items, page.TotalCount, nil
	}
}
