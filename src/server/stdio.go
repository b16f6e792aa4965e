package server

import (
	"io"
	"os"
)

// stdioConn adapts the process's stdin/stdout pair into the single
// io.ReadWriteCloser the JSON-RPC stream wants.
type stdioConn struct {
	in  io.ReadCloser
	out io.WriteCloser
}

func newStdioConn() *stdioConn {
	return &stdioConn{in: os.Stdin, out: os.Stdout}
}

func (s *stdioConn) Read(p []byte) (int, error) {
	return s.in.Read(p)
}

func (s *stdioConn) Write(p []byte) (int, error) {
	return s.out.Write(p)
}

func (s *stdioConn) Close() error {
	inErr := s.in.Close()
	outErr := s.out.Close()
	if inErr != nil {
		return inErr
	}
	return outErr
}
