// Package link drives IEC 60870-5-101 link layer frames over a byte stream.
//
// # Overview
//
// The protocol package decodes one frame at a time and leaves the search for
// the next start octet to its caller. This package is that caller:
//   - Reading frames from any io.ReadWriter, in chunks of any size
//   - Skipping noise between frames and resynchronizing after rejected frames
//   - Writing frames with the configured address width
//   - Request/response exchanges with retransmission
//   - Frame count bit tracking for a primary station
//
// # Basic Usage
//
//	// User provides the transport (io.ReadWriter)
//	port, err := serial.OpenPort(&serial.Config{Name: "/dev/ttyUSB0", Baud: 9600})
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	conn := link.New(port, link.WithTimeout(time.Second))
//
//	for {
//	    frame, err := conn.ReadFrame(ctx)
//	    if errors.Is(err, link.ErrTimeout) {
//	        continue
//	    }
//	    if err != nil {
//	        log.Fatal(err)
//	    }
//	    fmt.Println(frame)
//	}
//
// # Primary Station
//
//	st := conn.Station(1)
//	if _, err := st.ResetLink(ctx); err != nil {
//	    log.Fatal(err)
//	}
//	resp, err := st.RequestClass1(ctx)
//
// # Configuration Options
//
//	conn := link.New(port,
//	    link.WithLogger(myLogger),
//	    link.WithMetrics(metrics.New(prometheus.DefaultRegisterer)),
//	    link.WithFrameCallback(func(e link.Event) { ... }),
//	    link.WithAddressSize(protocol.AddressSize2),
//	    link.WithTimeout(500*time.Millisecond),
//	    link.WithRetries(3),
//	)
//
// # Error Handling
//
// The package provides structured error types:
//   - ErrTimeout: no valid frame within the read timeout
//   - RetriesExhaustedError: a request stayed unanswered
//   - UnexpectedResponseError: another station answered
//   - NotPrimaryError: Exchange was given a secondary frame
//
// Frames rejected by the codec are not returned as errors; they are logged,
// counted and skipped.
//
// # Concurrency
//
// A Conn serves a single line and must not be used from several goroutines
// at once. A blocked Read on the transport is only interrupted by a read
// deadline, which is applied when the transport supports SetReadDeadline.
package link
