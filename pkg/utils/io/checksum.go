package io

import (
	"crypto/md5"
	"hash"
	"io"
)

// ChecksumWriter forwards writes and keeps a running checksum of them.
type ChecksumWriter interface {
	io.Writer

	// Sum returns the checksum of all bytes written so far.
	Sum() []byte
}

// ChecksumReader forwards reads and keeps a running checksum of them.
type ChecksumReader interface {
	io.Reader

	// Sum returns the checksum of all bytes read so far.
	Sum() []byte
}

type md5Writer struct {
	dest io.Writer
	hash hash.Hash
}

func NewMD5Writer(dest io.Writer) ChecksumWriter {
	return &md5Writer{dest: dest, hash: md5.New()}
}

func (w *md5Writer) Write(p []byte) (int, error) {
	w.hash.Write(p)
	return w.dest.Write(p)
}

func (w *md5Writer) Sum() []byte {
	return w.hash.Sum(nil)
}

type md5Reader struct {
	source io.Reader
	hash   hash.Hash
}

func NewMD5Reader(source io.Reader) ChecksumReader {
	return &md5Reader{source: source, hash: md5.New()}
}

func (r *md5Reader) Read(p []byte) (int, error) {
	n, err := r.source.Read(p)
	if 0 < n {
		r.hash.Write(p[:n])
	}
	return n, err
}

func (r *md5Reader) Sum() []byte {
	return r.hash.Sum(nil)
}
