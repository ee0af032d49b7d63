package device

import (
	"bufio"
	"bytes"
	"context"
	"fmt"
	"io"
	"net"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/starvoid/AcerRGB/system/rgb"

	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"
)

// Defaults for Config
const (
	DefaultPath     = "/run/acer-kb-rgb.sock"
	DefaultMode     = os.FileMode(0666)
	DefaultMaxWrite = 4096
)

const (
	ioTimeout    = time.Second * 5
	codeTooLarge = -27 // EFBIG
)

// Writer applies keyboard command strings read from a ByteSource
type Writer interface {
	WriteFrom(src rgb.ByteSource, length int) (int, error)
}

// Config defines where the node listens and who handles the writes
type Config struct {
	Path     string
	Mode     os.FileMode
	MaxWrite int
	Keyboard Writer
}

// Node is the user space entry point for keyboard writes. Each connection
// carries one write: the client sends the command string and closes its side,
// the node answers "ok <bytes>" or "error <code> <message>".
type Node struct {
	Config
}

// NewNode validates conf and fills in defaults
func NewNode(conf Config) (*Node, error) {
	if conf.Keyboard == nil {
		return nil, errors.New("device: nil Keyboard is invalid")
	}
	if len(conf.Path) == 0 {
		conf.Path = DefaultPath
	}
	if conf.Mode == 0 {
		conf.Mode = DefaultMode
	}
	if conf.MaxWrite <= 0 {
		conf.MaxWrite = DefaultMaxWrite
	}
	return &Node{
		Config: conf,
	}, nil
}

func (n *Node) String() string {
	return "deviceNode"
}

// Serve satisfies suture.Service
func (n *Node) Serve(haltCtx context.Context) error {
	if err := os.Remove(n.Path); err != nil && !os.IsNotExist(err) {
		return errors.Wrap(err, "[deviceNode] cannot remove stale socket")
	}
	lis, err := net.Listen("unix", n.Path)
	if err != nil {
		return errors.Wrap(err, "[deviceNode] failed to listen for connections")
	}
	if err := os.Chmod(n.Path, n.Mode); err != nil {
		lis.Close()
		return errors.Wrap(err, "[deviceNode] cannot set socket mode")
	}

	go func() {
		<-haltCtx.Done()
		log.Info().Msg("[deviceNode] stopping device node")
		lis.Close()
	}()
	log.Info().Msgf("[deviceNode] device node available at %s", n.Path)

	for {
		conn, err := lis.Accept()
		if err != nil {
			if haltCtx.Err() != nil {
				os.Remove(n.Path)
				return nil
			}
			return errors.Wrap(err, "[deviceNode] accept failed")
		}
		go n.handle(conn)
	}
}

func (n *Node) handle(conn net.Conn) {
	defer conn.Close()
	conn.SetDeadline(time.Now().Add(ioTimeout))

	payload, err := io.ReadAll(io.LimitReader(conn, int64(n.MaxWrite)+1))
	if err != nil {
		log.Error().Err(err).Msg("[deviceNode] cannot read write request")
		return
	}
	if len(payload) > n.MaxWrite {
		fmt.Fprintf(conn, "error %d write exceeds %d bytes\n", codeTooLarge, n.MaxWrite)
		return
	}

	// the payload is caller memory, every byte goes through a checked copy
	src := rgb.NewValidated(bytes.NewReader(payload))
	written, err := n.Keyboard.WriteFrom(src, len(payload))
	if err != nil {
		fmt.Fprintf(conn, "error %d %s\n", rgb.Code(err), err)
		return
	}
	fmt.Fprintf(conn, "ok %d\n", written)
}

// RemoteError is a failed write reported by the node
type RemoteError struct {
	Code    int
	Message string
}

func (e *RemoteError) Error() string {
	return fmt.Sprintf("device: write failed with code %d: %s", e.Code, e.Message)
}

// Send writes payload to the node listening at path and returns the number of
// bytes it consumed
func Send(path string, payload []byte) (int, error) {
	conn, err := net.DialTimeout("unix", path, ioTimeout)
	if err != nil {
		return 0, errors.Wrap(err, "device: cannot connect to node")
	}
	defer conn.Close()
	conn.SetDeadline(time.Now().Add(ioTimeout * 2))

	if _, err := conn.Write(payload); err != nil {
		return 0, errors.Wrap(err, "device: cannot send payload")
	}
	if uc, ok := conn.(*net.UnixConn); ok {
		if err := uc.CloseWrite(); err != nil {
			return 0, errors.Wrap(err, "device: cannot finish payload")
		}
	}

	reply, err := bufio.NewReader(conn).ReadString('\n')
	if err != nil {
		return 0, errors.Wrap(err, "device: no reply from node")
	}
	return parseReply(strings.TrimSuffix(reply, "\n"))
}

func parseReply(reply string) (int, error) {
	fields := strings.SplitN(reply, " ", 3)
	switch {
	case len(fields) >= 2 && fields[0] == "ok":
		n, err := strconv.Atoi(fields[1])
		if err != nil {
			return 0, errors.Wrapf(err, "device: malformed reply %q", reply)
		}
		return n, nil
	case len(fields) >= 2 && fields[0] == "error":
		code, err := strconv.Atoi(fields[1])
		if err != nil {
			return 0, errors.Wrapf(err, "device: malformed reply %q", reply)
		}
		remote := &RemoteError{Code: code}
		if len(fields) == 3 {
			remote.Message = fields[2]
		}
		return 0, remote
	}
	return 0, errors.Errorf("device: malformed reply %q", reply)
}
