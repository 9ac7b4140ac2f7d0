package main

import (
	"net"
	"strconv"
	"sync"
	"sync/atomic"

	"github.com/danmuck/qimsg/internal/capability"
	"github.com/danmuck/qimsg/internal/config"
	"github.com/danmuck/qimsg/internal/logging"
	"github.com/danmuck/qimsg/internal/message"
	"github.com/danmuck/qimsg/internal/observability"
	"github.com/danmuck/qimsg/internal/stream"
)

// streamRegistry tracks the live per-connection stream.Context values so
// the admin server can report on them. It is unrelated to, and holds no
// reference into, the object-endpoint registries inside each stream.
type streamRegistry struct {
	mu      sync.Mutex
	streams map[string]*stream.Context
}

func newStreamRegistry() *streamRegistry {
	return &streamRegistry{streams: make(map[string]*stream.Context)}
}

func (r *streamRegistry) add(id string, ctx *stream.Context) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.streams[id] = ctx
}

func (r *streamRegistry) remove(id string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.streams, id)
}

func (r *streamRegistry) snapshot() map[string]*stream.Context {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make(map[string]*stream.Context, len(r.streams))
	for k, v := range r.streams {
		out[k] = v
	}
	return out
}

type listener struct {
	cfg config.ListenerConfig
	reg *streamRegistry

	nextConnID atomic.Uint64
}

func newListener(cfg config.ListenerConfig, reg *streamRegistry) *listener {
	return &listener{cfg: cfg, reg: reg}
}

// Serve accepts connections on l.cfg.Addr until the listener errors or is
// closed. Each connection gets its own stream.Context and frame read loop.
func (l *listener) Serve() error {
	ln, err := net.Listen("tcp", l.cfg.Addr)
	if err != nil {
		return err
	}
	defer ln.Close()
	logging.Infof("qimsgd: listening addr=%q", l.cfg.Addr)

	for {
		conn, err := ln.Accept()
		if err != nil {
			return err
		}
		go l.handleConn(conn)
	}
}

func (l *listener) handleConn(conn net.Conn) {
	defer conn.Close()

	connID := l.nextConnSocket()
	ctx := stream.New()
	ctx.AdvertiseCapabilities(l.cfg.CapabilityMap())
	l.reg.add(connID, ctx)
	defer l.reg.remove(connID)

	sock := &connSocket{conn: conn, limits: message.Limits{MaxPayloadBytes: l.cfg.MaxPayloadBytes}}

	if err := exchangeCapabilities(conn, sock.limits, l.cfg.CapabilityMap(), ctx); err != nil {
		logging.Warnf("qimsgd: connection %s capability handshake failed: %v", connID, err)
		return
	}

	for {
		msg, err := message.ReadFrame(conn, sock.limits)
		if err != nil {
			logging.Debugf("qimsgd: connection %s read loop ended: %v", connID, err)
			return
		}

		dispatch := ctx.DirectDispatchRegistry()
		if dispatch.DispatchMessage(msg, sock) {
			observability.RecordDispatch(connID, observability.OutcomeHit)
		} else {
			observability.RecordDispatch(connID, observability.OutcomeFallback)
			// No direct-dispatch endpoint claimed the message; a full build of
			// this service would hand it to the legacy service/object router
			// here. That router is out of scope for this listener.
			logging.Debugf("qimsgd: connection %s message fell back to legacy router", connID)
		}

		observability.SetRegistrySize(connID, "bound", dispatch.BoundLen())
		observability.SetRegistrySize(connID, "remote", dispatch.RemoteLen())
		observability.SetMetaObjectCacheSize(connID, "send", ctx.SendCacheLen())
		observability.SetMetaObjectCacheSize(connID, "receive", ctx.ReceiveCacheLen())
	}
}

// exchangeCapabilities performs the one-shot capability handshake this
// codebase's dispatch core treats as opaque: each side writes its local
// capability map as a single TypeOther frame, then reads the peer's frame
// and merges it into the stream's remote side. Service/object ids are
// unused (GenericObjectNone) since a handshake frame addresses no object.
func exchangeCapabilities(conn net.Conn, limits message.Limits, local capability.Map, ctx *stream.Context) error {
	out := message.New(message.TypeOther, message.ServiceServer, message.GenericObjectNone, capability.EncodeMap(local))
	if err := message.WriteFrame(conn, out, limits); err != nil {
		return err
	}

	in, err := message.ReadFrame(conn, limits)
	if err != nil {
		return err
	}
	remote, err := capability.DecodeMap(in.Body())
	if err != nil {
		return err
	}
	ctx.UpdateRemoteCapabilities(remote)
	return nil
}

func (l *listener) nextConnSocket() string {
	n := l.nextConnID.Add(1)
	return "conn-" + strconv.FormatUint(n, 10)
}

// connSocket adapts a net.Conn to registry.MessageSocket.
type connSocket struct {
	conn   net.Conn
	limits message.Limits
}

func (s *connSocket) Send(msg *message.Message) error {
	return message.WriteFrame(s.conn, msg, s.limits)
}
