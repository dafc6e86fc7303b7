//go:build linux

package input

import (
	"bytes"
	"io"
	"os"
	"time"
	"unsafe"

	"github.com/temoto/inputevent-go"
	"golang.org/x/sys/unix"
)

const DevInputEventTag = "dev-input-event"

const deviceNameMax = 80

type DevInputEventSource struct {
	fd   int
	path string
	name string
}

// compile-time interface compliance test
var _ Source = new(DevInputEventSource)

func (self *DevInputEventSource) String() string { return DevInputEventTag }
func (self *DevInputEventSource) Name() string   { return self.name }
func (self *DevInputEventSource) Path() string   { return self.path }

// Open never blocks on read: the descriptor is O_NONBLOCK and is not handed
// to the runtime poller, so Poll sees EAGAIN instead of parking.
func Open(device string) (*DevInputEventSource, error) {
	fd, err := unix.Open(device, unix.O_RDONLY|unix.O_NONBLOCK|unix.O_CLOEXEC, 0)
	if err != nil {
		return nil, &OpenError{Path: device, Op: "open", Err: err}
	}
	name, err := deviceName(fd)
	if err != nil {
		_ = unix.Close(fd)
		return nil, &OpenError{Path: device, Op: "ioctl", Err: err}
	}
	return &DevInputEventSource{fd: fd, path: device, name: name}, nil
}

func (self *DevInputEventSource) Poll() (RawEvent, bool, error) {
	ie, err := inputevent.ReadOne(fdReader(self.fd))
	switch err {
	case nil:
	case unix.EAGAIN, unix.EINTR:
		return RawEvent{}, false, nil
	default:
		return RawEvent{}, false, &ReadError{Path: self.path, Err: err}
	}
	return RawEvent{
		Time:  time.Unix(ie.Time.Unix()),
		Type:  ie.Type,
		Code:  ie.Code,
		Value: ie.Value,
	}, true, nil
}

func (self *DevInputEventSource) Wait(timeout time.Duration) (bool, error) {
	fds := []unix.PollFd{{Fd: int32(self.fd), Events: unix.POLLIN}}
	n, err := unix.Poll(fds, int(timeout/time.Millisecond))
	switch err {
	case nil:
	case unix.EINTR:
		return false, nil
	default:
		return false, &ReadError{Path: self.path, Err: os.NewSyscallError("poll", err)}
	}
	// POLLERR/POLLHUP also count as ready, next Poll reports the error
	return n > 0, nil
}

func (self *DevInputEventSource) Close() error {
	if self.fd < 0 {
		return nil
	}
	err := unix.Close(self.fd)
	self.fd = -1
	return err
}

type fdReader int

func (fd fdReader) Read(p []byte) (int, error) {
	n, err := unix.Read(int(fd), p)
	if err != nil {
		return 0, err
	}
	if n == 0 && len(p) > 0 {
		return 0, io.EOF
	}
	return n, nil
}

func deviceName(fd int) (string, error) {
	var buf [deviceNameMax]byte
	if err := ioctl(fd, eviocgname(len(buf)), uintptr(unsafe.Pointer(&buf[0]))); err != nil {
		return "", err
	}
	buf[len(buf)-1] = 0
	return string(buf[:bytes.IndexByte(buf[:], 0)]), nil
}

// EVIOCGNAME(len) = _IOC(_IOC_READ, 'E', 0x06, len)
func eviocgname(size int) uintptr {
	const iocRead = 2
	return iocRead<<30 | uintptr(size)<<16 | 'E'<<8 | 0x06
}

func ioctl(fd int, request uintptr, argp uintptr) error {
	if _, _, errno := unix.Syscall(unix.SYS_IOCTL, uintptr(fd), request, argp); errno != 0 {
		return os.NewSyscallError("ioctl", errno)
	}
	return nil
}
