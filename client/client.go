// Package gocraft is the viewer side of the hologram server: it performs
// the handshake, decodes the packet stream and wraps the RPC services.
package gocraft

import (
	"encoding/binary"
	"log"
	"net"
	"net/rpc"
	"net/rpc/jsonrpc"

	"github.com/hashicorp/yamux"

	"github.com/icexin/gocraft-holo/proto"
)

type Client struct {
	ClientId  int32
	Version   proto.Version
	threshold int
	handler   func(proto.Packet)
	done      chan struct{}

	*rpc.Client
}

// NewClient creates a client announcing version. threshold must match the
// compression threshold of the server.
func NewClient(version proto.Version, threshold int) *Client {
	return &Client{
		Version:   version,
		threshold: threshold,
		handler:   func(proto.Packet) {},
		done:      make(chan struct{}),
	}
}

// HandlePacket sets the function every decoded packet is passed to. It is
// called from a single goroutine and must be set before Start.
func (c *Client) HandlePacket(f func(proto.Packet)) {
	c.handler = f
}

func (c *Client) readPackets(stream net.Conn) {
	defer close(c.done)
	r := proto.NewFrameReader(stream, c.threshold)
	for {
		frame, err := r.ReadFrame()
		if err != nil {
			return
		}
		p, err := proto.Unmarshal(frame, c.Version)
		if err != nil {
			log.Print(err)
			continue
		}
		c.handler(p)
	}
}

func (c *Client) Start(conn net.Conn) error {
	if err := binary.Read(conn, binary.BigEndian, &c.ClientId); err != nil {
		return err
	}
	if err := binary.Write(conn, binary.BigEndian, int32(c.Version)); err != nil {
		return err
	}

	sess, err := yamux.Client(conn, nil)
	if err != nil {
		return err
	}
	stream, err := sess.Accept()
	if err != nil {
		return err
	}
	go c.readPackets(stream)

	rpcConn, err := sess.Open()
	if err != nil {
		return err
	}
	c.Client = rpc.NewClientWithCodec(jsonrpc.NewClientCodec(rpcConn))
	return nil
}

// Done is closed when the packet stream ends.
func (c *Client) Done() <-chan struct{} {
	return c.done
}

func (c *Client) UpdateState(state proto.PlayerState) (*proto.UpdateStateResponse, error) {
	req := &proto.UpdateStateRequest{Id: c.ClientId, State: state}
	rep := new(proto.UpdateStateResponse)
	err := c.Call("Player.UpdateState", req, rep)
	return rep, err
}

func (c *Client) Interact(entityID int32) (*proto.InteractResponse, error) {
	req := &proto.InteractRequest{Id: c.ClientId, EntityId: entityID}
	rep := new(proto.InteractResponse)
	err := c.Call("Hologram.Interact", req, rep)
	return rep, err
}

func (c *Client) List() ([]proto.HologramInfo, error) {
	rep := new(proto.ListResponse)
	err := c.Call("Hologram.List", &proto.ListRequest{Id: c.ClientId}, rep)
	return rep.Holograms, err
}

func (c *Client) Close() {
	c.Client.Close()
}
