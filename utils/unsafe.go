package utils

import (
	"net"
	"reflect"
	"sync"
	"sync/atomic"
	"time"
	"unsafe"

	"github.com/sandertv/go-raknet"
)

// security mirrors the unexported address blocking state of a raknet.Listener.
type security struct {
	conf raknet.ListenConfig

	blockCount atomic.Uint32

	mu     sync.Mutex
	blocks map[[16]byte]time.Time
}

// fetchPrivateField fetches a private field of a struct pointer.
func fetchPrivateField[T any](s any, name string) T {
	reflectedValue := reflect.ValueOf(s).Elem()
	privateFieldValue := reflectedValue.FieldByName(name)
	privateFieldValue = reflect.NewAt(privateFieldValue.Type(), unsafe.Pointer(privateFieldValue.UnsafeAddr())).Elem()

	return privateFieldValue.Interface().(T)
}

func unsafeCast[T any](s any) *T {
	v := reflect.ValueOf(s)
	if v.Kind() != reflect.Ptr {
		return (*T)(unsafe.Pointer(&s))
	}
	return (*T)(unsafe.Pointer(v.Pointer()))
}

func getRaknetSecurity(l *raknet.Listener) *security {
	sec := fetchPrivateField[any](l, "sec")
	return unsafeCast[security](sec)
}

// BlockAddress makes the listener drop every datagram from addr for duration.
func BlockAddress(l *raknet.Listener, addr net.IP, duration time.Duration) {
	sec := getRaknetSecurity(l)
	sec.mu.Lock()
	defer sec.mu.Unlock()
	sec.blockCount.Add(1)
	sec.blocks[[16]byte(addr.To16())] = time.Now().Add(duration)
}
