// Command iosim is a tiny demonstration board: it wires two addressed
// sockets onto a shared-media bus and sends one message across it,
// printing what the other side received. It exists to exercise the
// runtime end to end the way a board's main() wires sockets onto real
// hardware (std/compiler/main.go's hand-rolled os.Args loop is the
// style this follows rather than reaching for the flag package).
package main

import (
	"fmt"
	"os"

	"github.com/abstractsig/io-core/encoding"
	"github.com/abstractsig/io-core/event"
	"github.com/abstractsig/io-core/ioaddr"
	"github.com/abstractsig/io-core/layer"
	"github.com/abstractsig/io-core/mem"
	"github.com/abstractsig/io-core/socket"
)

func main() {
	message := "gook"
	i := 1
	for i < len(os.Args) {
		if os.Args[i] == "-message" && i+1 < len(os.Args) {
			message = os.Args[i+1]
			i += 2
		} else {
			fmt.Fprintf(os.Stderr, "usage: %s [-message text]\n", os.Args[0])
			os.Exit(1)
		}
	}

	heap := mem.NewHeap(1024*1024, 16, nil)
	tick := event.Time(0)
	runtime := event.NewRuntime(func() event.Time { return tick }, nil)

	bus := socket.NewSharedMedia(runtime, 8, 8)

	sender := socket.NewMultiplexerSocket(runtime, ioaddr.U8(11), 8, 8, nil)
	receiver := socket.NewMultiplexerSocket(runtime, ioaddr.U8(22), 8, 8, nil)

	if !sender.BindToOuterSocket(bus) || !receiver.BindToOuterSocket(bus) {
		fmt.Fprintln(os.Stderr, "iosim: failed to bind sockets to shared media")
		os.Exit(1)
	}

	delivered := make(chan string, 1)
	bus.BindInner(receiver.Address(), nil, event.NewEvent(func(*event.Event) {
		rx := bus.GetReceivePipe(receiver.Address())
		if rx == nil {
			return
		}
		if e, ok := rx.PeekEncoding(); ok {
			delivered <- string(socket.ContentOf(e))
		}
	}, nil))

	msg := encoding.NewPacket(heap)
	l := layer.Make(layer.DLC, msg)
	layer.SetLocalAddress(l, msg, sender.Address())
	msg.AppendBytes([]byte(message))

	if !sender.SendMessage(msg) {
		fmt.Fprintln(os.Stderr, "iosim: send failed")
		os.Exit(1)
	}
	runtime.RunToQuiescence()

	select {
	case got := <-delivered:
		fmt.Printf("delivered: %s\n", got)
	default:
		fmt.Println("iosim: nothing delivered")
		os.Exit(1)
	}
}
