package main

import (
	"net"
	"testing"
	"time"

	"github.com/danmuck/qimsg/internal/capability"
	"github.com/danmuck/qimsg/internal/config"
	"github.com/danmuck/qimsg/internal/message"
	"github.com/danmuck/qimsg/internal/stream"
)

func TestExchangeCapabilitiesMergesPeerMap(t *testing.T) {
	server, client := net.Pipe()
	defer server.Close()
	defer client.Close()

	limits := message.DefaultLimits()
	local := capability.Map{capability.ObjectPtrUID: capability.Bool(true)}
	ctx := stream.New()

	done := make(chan error, 1)
	go func() { done <- exchangeCapabilities(server, limits, local, ctx) }()

	peerHandshake, err := message.ReadFrame(client, limits)
	if err != nil {
		t.Fatalf("read peer handshake: %v", err)
	}
	decoded, err := capability.DecodeMap(peerHandshake.Body())
	if err != nil {
		t.Fatalf("decode peer handshake: %v", err)
	}
	if !decoded.GetBool(capability.ObjectPtrUID, false) {
		t.Fatalf("expected ObjectPtrUID=true in the local handshake payload")
	}

	reply := message.New(message.TypeOther, message.ServiceServer, message.GenericObjectNone,
		capability.EncodeMap(capability.Map{capability.DirectMessageDispatch: capability.Bool(true)}))
	if err := message.WriteFrame(client, reply, limits); err != nil {
		t.Fatalf("write reply: %v", err)
	}

	if err := <-done; err != nil {
		t.Fatalf("exchangeCapabilities: %v", err)
	}
	if !ctx.RemoteCapabilityBool(capability.DirectMessageDispatch, false) {
		t.Fatalf("expected remote capability map to be merged into the stream context")
	}
}

func TestListenerAcceptsConnectionAndFallsBackWithoutRecipient(t *testing.T) {
	cfg := config.ListenerConfig{
		Name:            "test",
		Addr:            "127.0.0.1:0",
		MaxPayloadBytes: 1024,
	}
	reg := newStreamRegistry()
	l := newListener(cfg, reg)

	ln, err := net.Listen("tcp", cfg.Addr)
	if err != nil {
		t.Fatalf("listen: %v", err)
	}
	l.cfg.Addr = ln.Addr().String()

	go func() {
		for {
			conn, err := ln.Accept()
			if err != nil {
				return
			}
			go l.handleConn(conn)
		}
	}()
	defer ln.Close()

	conn, err := net.DialTimeout("tcp", l.cfg.Addr, time.Second)
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	defer conn.Close()

	limits := message.DefaultLimits()
	handshake := message.New(message.TypeOther, message.ServiceServer, message.GenericObjectNone, capability.EncodeMap(capability.NewMap()))
	if err := message.WriteFrame(conn, handshake, limits); err != nil {
		t.Fatalf("write handshake frame: %v", err)
	}
	if _, err := message.ReadFrame(conn, limits); err != nil {
		t.Fatalf("read handshake reply: %v", err)
	}

	msg := message.New(message.TypeCall, 1, 2, []byte("no recipient here"))
	if err := message.WriteFrame(conn, msg, limits); err != nil {
		t.Fatalf("write frame: %v", err)
	}

	// Give the accept/read goroutine a moment to process the frame; there is
	// no reply to wait on since the message has no registered recipient.
	time.Sleep(50 * time.Millisecond)
}
