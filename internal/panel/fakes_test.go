package panel

import (
	"errors"
	"image"
	"image/color"

	"github.com/bnema/yarrbar/internal/render"
)

const (
	panelSurface   SurfaceID = 7
	foreignSurface SurfaceID = 99
)

type fakeDevice struct {
	kind     DeviceKind
	serial   int
	released bool
}

func (d *fakeDevice) Kind() DeviceKind { return d.kind }

func (d *fakeDevice) Release() error {
	d.released = true
	return nil
}

type fakeSeat struct {
	acquired []*fakeDevice
	fail     map[DeviceKind]error
}

func (s *fakeSeat) Acquire(kind DeviceKind) (Device, error) {
	if err := s.fail[kind]; err != nil {
		return nil, err
	}
	d := &fakeDevice{kind: kind, serial: len(s.acquired) + 1}
	s.acquired = append(s.acquired, d)
	return d, nil
}

type fakeSurface struct {
	id        SurfaceID
	placed    []Placement
	acked     []uint32
	ackErr    error
	destroyed int
}

func (s *fakeSurface) ID() SurfaceID { return s.id }

func (s *fakeSurface) Place(p Placement) error {
	s.placed = append(s.placed, p)
	return nil
}

func (s *fakeSurface) AckConfigure(serial uint32) error {
	if s.ackErr != nil {
		return s.ackErr
	}
	s.acked = append(s.acked, serial)
	return nil
}

func (s *fakeSurface) Destroy() error {
	s.destroyed++
	return nil
}

type fakeFrame struct {
	*render.Canvas
	cleared color.Color
	drawn   []image.Rectangle
}

func (f *fakeFrame) Clear(c color.Color, rect image.Rectangle) {
	f.cleared = c
	f.Canvas.Clear(c, rect)
}

func (f *fakeFrame) Draw(tex render.Texture, dst, clip image.Rectangle) error {
	f.drawn = append(f.drawn, dst)
	return f.Canvas.Draw(tex, dst, clip)
}

type fakeBackend struct {
	size      image.Point
	stuck     bool // ignores Resize
	resizes   []image.Point
	binds     int
	submitted []*fakeFrame
	submitErr error
	bindErr   error
	released  int
}

func (b *fakeBackend) PhysicalSize() image.Point { return b.size }

func (b *fakeBackend) Resize(size image.Point) error {
	b.resizes = append(b.resizes, size)
	if !b.stuck {
		b.size = size
	}
	return nil
}

func (b *fakeBackend) Bind() error {
	b.binds++
	return b.bindErr
}

func (b *fakeBackend) BeginFrame(size image.Point) (Frame, error) {
	return &fakeFrame{Canvas: render.NewCanvas(size)}, nil
}

func (b *fakeBackend) Submit(f Frame) error {
	if b.submitErr != nil {
		return b.submitErr
	}
	b.submitted = append(b.submitted, f.(*fakeFrame))
	return nil
}

func (b *fakeBackend) Release() error {
	b.released++
	return nil
}

type fakePainter struct {
	regions []image.Rectangle
	views   []View
	err     error
}

func (p *fakePainter) Paint(region image.Rectangle, scale float32, view View) (render.Texture, error) {
	p.regions = append(p.regions, region)
	p.views = append(p.views, view)
	if p.err != nil {
		return render.Texture{}, p.err
	}
	img := image.NewRGBA(image.Rect(0, 0, 4, 4))
	for i := range img.Pix {
		img.Pix[i] = 0xff
	}
	img.Pix[0], img.Pix[1] = 0, 0
	return render.NewTexture(img, image.Rect(0, 0, 4, 4)), nil
}

// fakeSource hands out one batch of events per Dispatch call.
type fakeSource struct {
	batches [][]Event
	err     error
	closed  bool
	rounds  int
}

func (s *fakeSource) Dispatch(h Handler) error {
	if s.closed {
		return ErrInterrupted
	}
	if s.rounds >= len(s.batches) {
		if s.err != nil {
			return s.err
		}
		return ErrInterrupted
	}
	batch := s.batches[s.rounds]
	s.rounds++
	for _, ev := range batch {
		if err := h.Handle(ev); err != nil {
			return err
		}
	}
	return nil
}

func (s *fakeSource) Close() error {
	s.closed = true
	return nil
}

var (
	errBoom   = errors.New("boom")
	escape, _ = LookupKey("Escape")
)

func newTestPanel(seat Seat) (*Panel, *fakeSurface, *fakeBackend, *fakePainter) {
	surface := &fakeSurface{id: panelSurface}
	backend := &fakeBackend{}
	painter := &fakePainter{}
	p, err := New(Options{
		Surface:   surface,
		Seat:      seat,
		Backend:   backend,
		Painter:   painter,
		Placement: Placement{Namespace: "test", Anchor: AnchorTop | AnchorLeft | AnchorRight, Height: 40},
		CancelKey: escape,
	})
	if err != nil {
		panic(err)
	}
	return p, surface, backend, painter
}

func configure(serial, w, h uint32) SurfaceEvent {
	return SurfaceEvent{Kind: SurfaceConfigure, Surface: panelSurface, Serial: serial, Width: w, Height: h}
}

func press(surface SurfaceID) PointerEvent {
	return PointerEvent{Kind: PointerButton, Surface: surface, Button: 0x110, Pressed: true}
}

// painterFunc runs a hook before painting the default fake texture.
type painterFunc func(region image.Rectangle, scale float32, view View) error

func (f painterFunc) Paint(region image.Rectangle, scale float32, view View) (render.Texture, error) {
	if err := f(region, scale, view); err != nil {
		return render.Texture{}, err
	}
	return (&fakePainter{}).Paint(region, scale, view)
}
