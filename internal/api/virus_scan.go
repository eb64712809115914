package api

import (
	"errors"
	"fmt"
	"io"

	"github.com/dutchcoders/go-clamd"
)

// ErrInfected 表示 ClamAV 在上传文件中发现了恶意内容。
var ErrInfected = errors.New("malicious file detected")

// VirusScanner 扫描上传内容。
type VirusScanner interface {
	Scan(r io.Reader) error
}

type clamdScanner struct {
	client *clamd.Clamd
}

// NewClamdScanner 返回基于 clamd INSTREAM 的扫描器；addr 为空时返回 nil 表示不扫描。
func NewClamdScanner(addr string) VirusScanner {
	if addr == "" {
		return nil
	}
	return &clamdScanner{client: clamd.NewClamd(addr)}
}

func (s *clamdScanner) Scan(r io.Reader) error {
	abortChan := make(chan bool)
	defer close(abortChan)

	results, err := s.client.ScanStream(r, abortChan)
	if err != nil {
		return fmt.Errorf("clamd scan stream: %w", err)
	}

	var infected error
	for result := range results {
		switch result.Status {
		case clamd.RES_OK:
		case clamd.RES_FOUND:
			infected = fmt.Errorf("%w: %s", ErrInfected, result.Description)
		default:
			if infected == nil {
				infected = fmt.Errorf("clamd returned %s: %s", result.Status, result.Description)
			}
		}
	}
	return infected
}
