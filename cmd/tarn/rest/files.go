package rest

import (
	"context"
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"

	"github.com/tarnlab/tarn/pkg/api/types/data"
	tio "github.com/tarnlab/tarn/pkg/utils/io"
)

var ErrChecksumUnmatch = errors.New("checksum unmatch")

func (c *client) UploadFile(
	ctx context.Context, datasetId string, segmentName string, unit *data.Local,
) Progress[data.Wire] {
	prog := newProgress[data.Wire](unit.LocalPath)

	f, err := os.Open(unit.LocalPath)
	if err != nil {
		return prog.fail(err)
	}
	if stat, err := f.Stat(); err == nil {
		prog.total = stat.Size()
	}

	md5reader := tio.NewMD5Reader(&reportingReader{source: f, sent: &prog.sentSize})
	treader := tio.NewTriggerReader(md5reader)

	req, err := http.NewRequestWithContext(
		ctx, http.MethodPost,
		c.apipath("datasets", datasetId, "segments", segmentName, "files"),
		treader,
	)
	if err != nil {
		f.Close()
		return prog.fail(err)
	}

	q := req.URL.Query()
	q.Set("path", unit.TargetRemotePath())
	req.URL.RawQuery = q.Encode()

	req.Trailer = http.Header{}
	req.Header.Add("Content-Type", "application/octet-stream")
	req.Header.Add("Transfer-Encoding", "chunked")
	req.Header.Add("Trailer", "x-checksum-md5")
	treader.OnEnd(func() {
		req.Trailer.Add("x-checksum-md5", hex.EncodeToString(md5reader.Sum()))
		prog.markSent()
	})

	go func() {
		defer close(prog.done)
		// the server may answer (or the connection die) before the whole
		// body is read through.
		defer prog.markSent()
		defer f.Close()

		resp, err := c.httpclient.Do(req)
		if err != nil {
			prog.err = err
			return
		}
		defer resp.Body.Close()

		res := data.Wire{}
		if err := unmarshalJsonResponse(
			resp, &res,
			MessageFor{
				Status4xx: fmt.Sprintf("sending file is rejected by server (status code = %d)", resp.StatusCode),
				Status5xx: fmt.Sprintf("server error (status code = %d)", resp.StatusCode),
			},
		); err != nil {
			prog.err = err
			return
		}

		prog.result = res
		prog.resultOk = true
	}()

	return prog
}

func (c *client) Download(ctx context.Context, unit *data.Remote, handler func(io.Reader) error) error {
	url, err := unit.URL().Resolve(ctx)
	if err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return err
	}

	resp, err := c.httpclient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	r, err := unmarshalStreamResponse(
		resp,
		MessageFor{
			Status4xx: fmt.Sprintf("downloading %s is rejected by server (status code = %d)", unit.RemotePath, resp.StatusCode),
			Status5xx: fmt.Sprintf("server error (status code = %d)", resp.StatusCode),
		},
	)
	if err != nil {
		return err
	}

	chr := tio.NewMD5Reader(r)
	tr := tio.NewTriggerReader(chr)
	var hasherr error
	tr.OnEnd(func() {
		// trailers arrive only once the body is read through.
		serverChecksum := resp.Trailer.Get("x-checksum-md5")
		if serverChecksum == "" {
			return
		}

		actualChecksum := hex.EncodeToString(chr.Sum())
		if serverChecksum == actualChecksum {
			return
		}
		hasherr = fmt.Errorf(
			"%w: server sent: %s, calculated: %s",
			ErrChecksumUnmatch, serverChecksum, actualChecksum,
		)
	})

	if err := handler(tr); err != nil {
		return err
	}
	// drain whatever handler left so the checksum covers the whole content.
	if _, err := io.Copy(io.Discard, tr); err != nil {
		return err
	}

	return hasherr
}
