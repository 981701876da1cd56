// Package apiserver is an in-memory Tarn platform for tests.
//
// It speaks the same wire protocol as the real platform: paged listings
// with the {items, offset, recordSize, totalCount} envelope, frame and
// url-table endpoints per segment, and file transfer with md5 checksums
// in the "x-checksum-md5" trailer.
package apiserver

import (
	"encoding/hex"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"strconv"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/labstack/gommon/log"

	tprof "github.com/tarnlab/tarn/cmd/tarn/config/profiles"
	"github.com/tarnlab/tarn/pkg/api/types/catalog"
	"github.com/tarnlab/tarn/pkg/api/types/data"
	"github.com/tarnlab/tarn/pkg/api/types/datasets"
	apierr "github.com/tarnlab/tarn/pkg/api/types/errors"
	"github.com/tarnlab/tarn/pkg/api/types/frames"
	"github.com/tarnlab/tarn/pkg/api/types/ident"
	"github.com/tarnlab/tarn/pkg/api/types/misc/epochtime"
	"github.com/tarnlab/tarn/pkg/api/types/segments"
	tio "github.com/tarnlab/tarn/pkg/utils/io"
	"github.com/tarnlab/tarn/pkg/utils/maps"
	"github.com/tarnlab/tarn/pkg/utils/pointer"
)

// Segment holds a segment's frames in insertion order, the url table
// entry of each frame and the objects stored under the segment.
type Segment struct {
	Notes  string
	Frames []frames.Response
	URLs   []map[string]string
	Files  map[string][]byte
}

// Dataset is a dataset with its catalog and segments.
type Dataset struct {
	Detail   datasets.Detail
	Catalog  *catalog.Catalog
	Segments *maps.Ordered[string, *Segment]
}

// Server is a fake Tarn platform listening on a local port.
//
// Seed it with AddDataset, AddSegment, AddFrame and PutObject, or drive
// it through the REST API like the real one.
type Server struct {
	*httptest.Server

	datasets maps.Ordered[string, *Dataset]
	serial   int
}

// New starts a fake platform. It is closed when the test ends.
func New(t *testing.T) *Server {
	t.Helper()

	s := &Server{}

	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Logger.SetLevel(log.OFF)

	e.POST("/api/datasets", s.createDataset)
	e.GET("/api/datasets", s.findDatasets)
	e.GET("/api/datasets/:dataset", s.getDataset)
	e.PUT("/api/datasets/:dataset/catalog", s.putCatalog)
	e.GET("/api/datasets/:dataset/catalog", s.getCatalog)
	e.POST("/api/datasets/:dataset/segments", s.createSegment)
	e.GET("/api/datasets/:dataset/segments", s.findSegments)
	e.GET("/api/datasets/:dataset/segments/:segment/frames", s.listFrames)
	e.POST("/api/datasets/:dataset/segments/:segment/frames", s.postFrame)
	e.GET("/api/datasets/:dataset/segments/:segment/urls", s.listURLs)
	e.POST("/api/datasets/:dataset/segments/:segment/files", s.putFile)
	e.GET("/bucket/:dataset/:segment/*", s.getFile)

	s.Server = httptest.NewServer(e)
	t.Cleanup(s.Server.Close)

	return s
}

// Profile points a client at this server.
func (s *Server) Profile() *tprof.TarnProfile {
	return &tprof.TarnProfile{ApiRoot: s.URL + "/api"}
}

// AddDataset seeds a dataset. Zero DatasetID and CreatedAt are filled in.
func (s *Server) AddDataset(d datasets.Detail) datasets.Detail {
	if d.DatasetID == "" {
		s.serial++
		d.DatasetID = fmt.Sprintf("ds-%04d", s.serial)
	}
	if d.CreatedAt == 0 {
		d.CreatedAt = epochtime.Now()
	}
	s.datasets.Set(d.DatasetID, &Dataset{
		Detail:   d,
		Segments: maps.NewOrdered[string, *Segment](),
	})
	return d
}

// AddSegment seeds an empty segment in a dataset.
func (s *Server) AddSegment(datasetId string, name string) *Segment {
	ds, ok := s.datasets.Get(datasetId)
	if !ok {
		panic(fmt.Sprintf("no such dataset: %s", datasetId))
	}
	seg := &Segment{Files: map[string][]byte{}}
	ds.Segments.Set(name, seg)
	return seg
}

// AddFrame seeds a frame at the end of a segment.
//
// urls maps sensor names to object paths within the segment. They are
// served as absolute download URLs in the segment's url table.
func (s *Server) AddFrame(datasetId string, segment string, r frames.Response, urls map[string]string) {
	seg := s.segment(datasetId, segment)
	table := map[string]string{}
	for sensor, path := range urls {
		table[sensor] = s.ObjectURL(datasetId, segment, path)
	}
	seg.Frames = append(seg.Frames, r)
	seg.URLs = append(seg.URLs, table)
}

// PutObject seeds an object and returns its download URL.
func (s *Server) PutObject(datasetId string, segment string, path string, content []byte) string {
	seg := s.segment(datasetId, segment)
	seg.Files[path] = content
	return s.ObjectURL(datasetId, segment, path)
}

// ObjectURL is where an object in the fake bucket is downloaded from.
func (s *Server) ObjectURL(datasetId string, segment string, path string) string {
	return s.URL + "/bucket/" + datasetId + "/" + segment + "/" + path
}

func (s *Server) segment(datasetId string, name string) *Segment {
	ds, ok := s.datasets.Get(datasetId)
	if !ok {
		panic(fmt.Sprintf("no such dataset: %s", datasetId))
	}
	seg, ok := ds.Segments.Get(name)
	if !ok {
		panic(fmt.Sprintf("no such segment: %s/%s", datasetId, name))
	}
	return seg
}

func errorResponse(code int, reason string) *echo.HTTPError {
	body := apierr.ErrorResponse{Message: apierr.ErrorMessage{Reason: reason}}
	return echo.NewHTTPError(code, body).SetInternal(body.Message)
}

func notFound(what string) *echo.HTTPError {
	return errorResponse(http.StatusNotFound, what+" is not found")
}

func badRequest(reason string) *echo.HTTPError {
	return errorResponse(http.StatusBadRequest, reason)
}

func conflict(what string) *echo.HTTPError {
	return errorResponse(http.StatusConflict, what+" already exists")
}

func pagination(c echo.Context) (offset int, limit int) {
	offset, limit = 0, 128
	if q := c.QueryParam("offset"); q != "" {
		if n, err := strconv.Atoi(q); err == nil {
			offset = n
		}
	}
	if q := c.QueryParam("limit"); q != "" {
		if n, err := strconv.Atoi(q); err == nil {
			limit = n
		}
	}
	return
}

type page[T any] struct {
	Items      []T `json:"items"`
	Offset     int `json:"offset"`
	RecordSize int `json:"recordSize"`
	TotalCount int `json:"totalCount"`
}

func paged[T any](c echo.Context, items []T) error {
	offset, limit := pagination(c)
	total := len(items)

	chunk := []T{}
	if 0 <= offset && offset < total {
		end := offset + limit
		if total < end {
			end = total
		}
		chunk = items[offset:end]
	}

	return c.JSON(http.StatusOK, page[T]{
		Items:      chunk,
		Offset:     offset,
		RecordSize: len(chunk),
		TotalCount: total,
	})
}

func (s *Server) createDataset(c echo.Context) error {
	var req struct {
		Name  string `json:"name"`
		Notes string `json:"notes"`
	}
	if err := c.Bind(&req); err != nil {
		return badRequest("malformed dataset")
	}
	if req.Name == "" {
		return badRequest(`required field missing: "name"`)
	}
	for _, ds := range s.datasets.Values() {
		if ds.Detail.Name == req.Name {
			return conflict("dataset " + req.Name)
		}
	}

	s.serial++
	det := datasets.Detail{
		Summary: datasets.Summary{
			DatasetID: fmt.Sprintf("ds-%04d", s.serial),
			Name:      req.Name,
			CreatedAt: epochtime.Now(),
		},
		Notes: req.Notes,
	}
	s.datasets.Set(det.DatasetID, &Dataset{
		Detail:   det,
		Segments: maps.NewOrdered[string, *Segment](),
	})
	return c.JSON(http.StatusOK, det)
}

func (s *Server) findDatasets(c echo.Context) error {
	name := c.QueryParam("name")
	found := []datasets.Summary{}
	for _, ds := range s.datasets.Values() {
		if name != "" && ds.Detail.Name != name {
			continue
		}
		found = append(found, ds.Detail.Summary)
	}
	return paged(c, found)
}

func (s *Server) getDataset(c echo.Context) error {
	ds, ok := s.datasets.Get(c.Param("dataset"))
	if !ok {
		return notFound("dataset " + c.Param("dataset"))
	}
	return c.JSON(http.StatusOK, ds.Detail)
}

func (s *Server) putCatalog(c echo.Context) error {
	ds, ok := s.datasets.Get(c.Param("dataset"))
	if !ok {
		return notFound("dataset " + c.Param("dataset"))
	}
	cat := catalog.Catalog{}
	if err := c.Bind(&cat); err != nil {
		return badRequest("malformed catalog")
	}
	ds.Catalog = &cat
	return c.NoContent(http.StatusNoContent)
}

func (s *Server) getCatalog(c echo.Context) error {
	ds, ok := s.datasets.Get(c.Param("dataset"))
	if !ok {
		return notFound("dataset " + c.Param("dataset"))
	}
	if ds.Catalog == nil {
		return c.JSON(http.StatusOK, catalog.Catalog{})
	}
	return c.JSON(http.StatusOK, ds.Catalog)
}

func (s *Server) createSegment(c echo.Context) error {
	ds, ok := s.datasets.Get(c.Param("dataset"))
	if !ok {
		return notFound("dataset " + c.Param("dataset"))
	}
	var req struct {
		Name string `json:"name"`
	}
	if err := c.Bind(&req); err != nil {
		return badRequest("malformed segment")
	}
	if req.Name == "" {
		return badRequest(`required field missing: "name"`)
	}
	if _, ok := ds.Segments.Get(req.Name); ok {
		return conflict("segment " + req.Name)
	}

	ds.Segments.Set(req.Name, &Segment{Files: map[string][]byte{}})
	return c.JSON(http.StatusOK, segments.Detail{
		Summary: segments.Summary{Name: req.Name},
	})
}

func (s *Server) findSegments(c echo.Context) error {
	ds, ok := s.datasets.Get(c.Param("dataset"))
	if !ok {
		return notFound("dataset " + c.Param("dataset"))
	}
	found := []segments.Summary{}
	ds.Segments.Iter()(func(name string, seg *Segment) bool {
		found = append(found, segments.Summary{
			Name:       name,
			FrameCount: len(seg.Frames),
		})
		return true
	})
	return paged(c, found)
}

func (s *Server) listFrames(c echo.Context) error {
	seg, herr := s.findSegment(c)
	if herr != nil {
		return herr
	}
	return paged(c, seg.Frames)
}

func (s *Server) listURLs(c echo.Context) error {
	seg, herr := s.findSegment(c)
	if herr != nil {
		return herr
	}
	return paged(c, seg.URLs)
}

func (s *Server) postFrame(c echo.Context) error {
	seg, herr := s.findSegment(c)
	if herr != nil {
		return herr
	}

	var req struct {
		FrameID   *string            `json:"frameId,omitempty"`
		Timestamp *epochtime.Seconds `json:"timestamp,omitempty"`
		Frame     []data.Wire        `json:"frame"`
	}
	if err := c.Bind(&req); err != nil {
		return badRequest("malformed frame")
	}
	if (req.FrameID != nil) == (req.Timestamp != nil) {
		return badRequest("a frame takes exactly one of frameId and timestamp")
	}

	var id ident.FrameID
	if req.FrameID != nil {
		parsed, err := ident.Parse(*req.FrameID)
		if err != nil {
			return badRequest("malformed frame id: " + *req.FrameID)
		}
		id = parsed
	} else {
		id = ident.At(req.Timestamp.Time())
	}

	table := map[string]string{}
	for _, entry := range req.Frame {
		if entry.RemotePath == nil {
			continue
		}
		table[entry.SensorName] = s.ObjectURL(
			c.Param("dataset"), c.Param("segment"), *entry.RemotePath,
		)
	}

	seg.Frames = append(seg.Frames, frames.Response{
		FrameID: pointer.Ref(id.String()),
		Frame:   req.Frame,
	})
	seg.URLs = append(seg.URLs, table)

	return c.JSON(http.StatusOK, map[string]string{"frameId": id.String()})
}

func (s *Server) putFile(c echo.Context) error {
	seg, herr := s.findSegment(c)
	if herr != nil {
		return herr
	}
	path := c.QueryParam("path")
	if path == "" {
		return badRequest(`required query missing: "path"`)
	}

	body := tio.NewMD5Reader(c.Request().Body)
	content, err := io.ReadAll(body)
	if err != nil {
		return errorResponse(http.StatusInternalServerError, "cannot read content")
	}

	// trailers arrive once the body is exhausted
	if sum := c.Request().Trailer.Get("x-checksum-md5"); sum != "" {
		if sum != hex.EncodeToString(body.Sum()) {
			return badRequest("checksum unmatch")
		}
	}

	seg.Files[path] = content
	return c.JSON(http.StatusOK, data.Wire{
		RemotePath: &path,
		Timestamp:  pointer.Ref(epochtime.Now()),
	})
}

func (s *Server) getFile(c echo.Context) error {
	seg, herr := s.findSegment(c)
	if herr != nil {
		return herr
	}
	content, ok := seg.Files[c.Param("*")]
	if !ok {
		return notFound("object " + c.Param("*"))
	}

	resp := c.Response()
	resp.Header().Set(echo.HeaderContentType, "application/octet-stream")
	resp.Header().Add("Trailer", "x-checksum-md5")
	resp.WriteHeader(http.StatusOK)

	chw := tio.NewMD5Writer(resp)
	if _, err := chw.Write(content); err != nil {
		return err
	}
	resp.Header().Add("x-checksum-md5", hex.EncodeToString(chw.Sum()))
	return nil
}

func (s *Server) findSegment(c echo.Context) (*Segment, *echo.HTTPError) {
	ds, ok := s.datasets.Get(c.Param("dataset"))
	if !ok {
		return nil, notFound("dataset " + c.Param("dataset"))
	}
	seg, ok := ds.Segments.Get(c.Param("segment"))
	if !ok {
		return nil, notFound("segment " + c.Param("segment"))
	}
	return seg, nil
}
