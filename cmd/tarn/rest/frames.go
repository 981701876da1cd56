package rest

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/tarnlab/tarn/pkg/api/types/data"
	"github.com/tarnlab/tarn/pkg/api/types/frames"
	"github.com/tarnlab/tarn/pkg/api/types/ident"
	"github.com/tarnlab/tarn/pkg/api/types/misc/epochtime"
	"github.com/tarnlab/tarn/pkg/lazy"
)

// ErrFrameKey means a frame was posted with both or neither of a frame id
// and a timestamp. The platform orders frames by exactly one of them.
var ErrFrameKey = errors.New("a frame takes exactly one of frame id and timestamp")

func (c *client) ListFrames(datasetId string, segmentName string) *lazy.Seq[*frames.Frame] {
	urls := lazy.NewSeq(
		c.pageSize,
		fetchPaged[map[string]string](
			c, c.apipath("datasets", datasetId, "segments", segmentName, "urls"), nil,
		),
	)
	fetchFrames := fetchPaged[frames.Response](
		c, c.apipath("datasets", datasetId, "segments", segmentName, "frames"), nil,
	)

	return lazy.NewSeq(
		c.pageSize,
		func(ctx context.Context, offset int, limit int) ([]*frames.Frame, int, error) {
			responses, total, err := fetchFrames(ctx, offset, limit)
			if err != nil {
				return nil, 0, err
			}

			items := make([]*frames.Frame, 0, len(responses))
			for i, r := range responses {
				f, err := frames.FromResponse(r, offset+i, urls, c.dec)
				if err != nil {
					return nil, 0, err
				}
				items = append(items, f)
			}
			return items, total, nil
		},
	)
}

func (c *client) PostFrame(
	ctx context.Context, datasetId string, segmentName string,
	frame *frames.Frame, timestamp *epochtime.Seconds,
) (ident.FrameID, error) {
	body := struct {
		FrameID   *string            `json:"frameId,omitempty"`
		Timestamp *epochtime.Seconds `json:"timestamp,omitempty"`
		Frame     []data.Wire        `json:"frame"`
	}{Frame: frame.Entries()}

	id, hasId := frame.ID()
	if hasId == (timestamp != nil) {
		return ident.FrameID{}, ErrFrameKey
	}
	if hasId {
		s := id.String()
		body.FrameID = &s
	} else {
		body.Timestamp = timestamp
	}

	reqBody, err := json.Marshal(body)
	if err != nil {
		return ident.FrameID{}, err
	}

	req, err := http.NewRequestWithContext(
		ctx, http.MethodPost,
		c.apipath("datasets", datasetId, "segments", segmentName, "frames"),
		bytes.NewReader(reqBody),
	)
	if err != nil {
		return ident.FrameID{}, err
	}
	req.Header.Add("Content-Type", "application/json")

	resp, err := c.httpclient.Do(req)
	if err != nil {
		return ident.FrameID{}, err
	}
	defer resp.Body.Close()

	res := struct {
		FrameID string `json:"frameId"`
	}{}
	if err := unmarshalJsonResponse(
		resp, &res,
		MessageFor{
			Status4xx: fmt.Sprintf("posting frame is rejected by server (status code = %d)", resp.StatusCode),
			Status5xx: fmt.Sprintf("server error (status code = %d)", resp.StatusCode),
		},
	); err != nil {
		return ident.FrameID{}, err
	}

	return c.dec.Decode(res.FrameID)
}
