package mock

import (
	"context"
	"io"
	"testing"

	"github.com/tarnlab/tarn/cmd/tarn/rest"
	"github.com/tarnlab/tarn/pkg/api/types/catalog"
	"github.com/tarnlab/tarn/pkg/api/types/data"
	"github.com/tarnlab/tarn/pkg/api/types/datasets"
	"github.com/tarnlab/tarn/pkg/api/types/frames"
	"github.com/tarnlab/tarn/pkg/api/types/ident"
	"github.com/tarnlab/tarn/pkg/api/types/misc/epochtime"
	"github.com/tarnlab/tarn/pkg/api/types/segments"
	"github.com/tarnlab/tarn/pkg/lazy"
)

type CreateDatasetArgs struct {
	Name  string
	Notes string
}

type CreateSegmentArgs struct {
	DatasetId string
	Name      string
}

type PutCatalogArgs struct {
	DatasetId string
	Catalog   catalog.Catalog
}

type ListFramesArgs struct {
	DatasetId   string
	SegmentName string
}

type PostFrameArgs struct {
	DatasetId   string
	SegmentName string
	Frame       *frames.Frame
	Timestamp   *epochtime.Seconds
}

type UploadFileArgs struct {
	DatasetId   string
	SegmentName string
	Unit        *data.Local
}

func New(t *testing.T) *mockTarnClient {
	return &mockTarnClient{t: t}
}

type MockedProgress[T any] struct {
	EstimatedTotalSize_ int64

	ProgressedSize_ int64

	ProgressingFile_ string

	Error_ error

	Result_ T

	ResultOk_ bool

	Done_ <-chan struct{}

	Sent_ <-chan struct{}
}

func (m *MockedProgress[T]) EstimatedTotalSize() int64 {
	return m.EstimatedTotalSize_
}

func (m *MockedProgress[T]) ProgressedSize() int64 {
	return m.ProgressedSize_
}

func (m *MockedProgress[T]) ProgressingFile() string {
	return m.ProgressingFile_
}

func (m *MockedProgress[T]) Result() (T, bool) {
	return m.Result_, m.ResultOk_
}

func (m *MockedProgress[T]) Error() error {
	return m.Error_
}

func (m *MockedProgress[T]) Done() <-chan struct{} {
	return m.Done_
}

func (m *MockedProgress[T]) Sent() <-chan struct{} {
	return m.Sent_
}

type mockTarnClient struct {
	t    *testing.T
	Impl struct {
		CreateDataset func(ctx context.Context, name string, notes string) (datasets.Detail, error)
		GetDataset    func(ctx context.Context, datasetId string) (datasets.Detail, error)
		FindDatasets  func(name string) *lazy.Seq[datasets.Summary]
		PutCatalog    func(ctx context.Context, datasetId string, cat catalog.Catalog) error
		GetCatalog    func(ctx context.Context, datasetId string) (catalog.Catalog, error)
		CreateSegment func(ctx context.Context, datasetId string, name string) (segments.Detail, error)
		FindSegments  func(datasetId string) *lazy.Seq[segments.Summary]
		ListFrames    func(datasetId string, segmentName string) *lazy.Seq[*frames.Frame]
		PostFrame     func(
			ctx context.Context, datasetId string, segmentName string,
			frame *frames.Frame, timestamp *epochtime.Seconds,
		) (ident.FrameID, error)
		UploadFile func(
			ctx context.Context, datasetId string, segmentName string, unit *data.Local,
		) rest.Progress[data.Wire]
		Download func(ctx context.Context, unit *data.Remote, handler func(io.Reader) error) error
	}
	Calls struct {
		CreateDataset []CreateDatasetArgs
		GetDataset    []string
		FindDatasets  []string
		PutCatalog    []PutCatalogArgs
		GetCatalog    []string
		CreateSegment []CreateSegmentArgs
		FindSegments  []string
		ListFrames    []ListFramesArgs
		PostFrame     []PostFrameArgs
		UploadFile    []UploadFileArgs
		Download      []string
	}
}

var _ rest.TarnClient = &mockTarnClient{}

func (m *mockTarnClient) CreateDataset(ctx context.Context, name string, notes string) (datasets.Detail, error) {
	m.t.Helper()

	m.Calls.CreateDataset = append(m.Calls.CreateDataset, CreateDatasetArgs{Name: name, Notes: notes})
	if m.Impl.CreateDataset == nil {
		m.t.Fatal("CreateDataset is not ready to be called")
	}
	return m.Impl.CreateDataset(ctx, name, notes)
}

func (m *mockTarnClient) GetDataset(ctx context.Context, datasetId string) (datasets.Detail, error) {
	m.t.Helper()

	m.Calls.GetDataset = append(m.Calls.GetDataset, datasetId)
	if m.Impl.GetDataset == nil {
		m.t.Fatal("GetDataset is not ready to be called")
	}
	return m.Impl.GetDataset(ctx, datasetId)
}

func (m *mockTarnClient) FindDatasets(name string) *lazy.Seq[datasets.Summary] {
	m.t.Helper()

	m.Calls.FindDatasets = append(m.Calls.FindDatasets, name)
	if m.Impl.FindDatasets == nil {
		m.t.Fatal("FindDatasets is not ready to be called")
	}
	return m.Impl.FindDatasets(name)
}

func (m *mockTarnClient) PutCatalog(ctx context.Context, datasetId string, cat catalog.Catalog) error {
	m.t.Helper()

	m.Calls.PutCatalog = append(m.Calls.PutCatalog, PutCatalogArgs{DatasetId: datasetId, Catalog: cat})
	if m.Impl.PutCatalog == nil {
		m.t.Fatal("PutCatalog is not ready to be called")
	}
	return m.Impl.PutCatalog(ctx, datasetId, cat)
}

func (m *mockTarnClient) GetCatalog(ctx context.Context, datasetId string) (catalog.Catalog, error) {
	m.t.Helper()

	m.Calls.GetCatalog = append(m.Calls.GetCatalog, datasetId)
	if m.Impl.GetCatalog == nil {
		m.t.Fatal("GetCatalog is not ready to be called")
	}
	return m.Impl.GetCatalog(ctx, datasetId)
}

func (m *mockTarnClient) CreateSegment(ctx context.Context, datasetId string, name string) (segments.Detail, error) {
	m.t.Helper()

	m.Calls.CreateSegment = append(m.Calls.CreateSegment, CreateSegmentArgs{DatasetId: datasetId, Name: name})
	if m.Impl.CreateSegment == nil {
		m.t.Fatal("CreateSegment is not ready to be called")
	}
	return m.Impl.CreateSegment(ctx, datasetId, name)
}

func (m *mockTarnClient) FindSegments(datasetId string) *lazy.Seq[segments.Summary] {
	m.t.Helper()

	m.Calls.FindSegments = append(m.Calls.FindSegments, datasetId)
	if m.Impl.FindSegments == nil {
		m.t.Fatal("FindSegments is not ready to be called")
	}
	return m.Impl.FindSegments(datasetId)
}

func (m *mockTarnClient) ListFrames(datasetId string, segmentName string) *lazy.Seq[*frames.Frame] {
	m.t.Helper()

	m.Calls.ListFrames = append(m.Calls.ListFrames, ListFramesArgs{DatasetId: datasetId, SegmentName: segmentName})
	if m.Impl.ListFrames == nil {
		m.t.Fatal("ListFrames is not ready to be called")
	}
	return m.Impl.ListFrames(datasetId, segmentName)
}

func (m *mockTarnClient) PostFrame(
	ctx context.Context, datasetId string, segmentName string,
	frame *frames.Frame, timestamp *epochtime.Seconds,
) (ident.FrameID, error) {
	m.t.Helper()

	m.Calls.PostFrame = append(m.Calls.PostFrame, PostFrameArgs{
		DatasetId: datasetId, SegmentName: segmentName, Frame: frame, Timestamp: timestamp,
	})
	if m.Impl.PostFrame == nil {
		m.t.Fatal("PostFrame is not ready to be called")
	}
	return m.Impl.PostFrame(ctx, datasetId, segmentName, frame, timestamp)
}

func (m *mockTarnClient) UploadFile(
	ctx context.Context, datasetId string, segmentName string, unit *data.Local,
) rest.Progress[data.Wire] {
	m.t.Helper()

	m.Calls.UploadFile = append(m.Calls.UploadFile, UploadFileArgs{
		DatasetId: datasetId, SegmentName: segmentName, Unit: unit,
	})
	if m.Impl.UploadFile == nil {
		m.t.Fatal("UploadFile is not ready to be called")
	}
	return m.Impl.UploadFile(ctx, datasetId, segmentName, unit)
}

func (m *mockTarnClient) Download(ctx context.Context, unit *data.Remote, handler func(io.Reader) error) error {
	m.t.Helper()

	m.Calls.Download = append(m.Calls.Download, unit.RemotePath)
	if m.Impl.Download == nil {
		m.t.Fatal("Download is not ready to be called")
	}
	return m.Impl.Download(ctx, unit, handler)
}
