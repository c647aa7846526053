package service_test

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"image"
	"image/color"
	"image/png"
	"path/filepath"
	"testing"
	"time"

	"github.com/wojo-o/inker-sub001/internal/cache"
	"github.com/wojo-o/inker-sub001/internal/domain"
	"github.com/wojo-o/inker-sub001/internal/overlay"
	"github.com/wojo-o/inker-sub001/internal/scene"
	"github.com/wojo-o/inker-sub001/internal/service"
	"github.com/wojo-o/inker-sub001/internal/storage"
	"github.com/wojo-o/inker-sub001/internal/widget"
)

// ─────────────────────────────────────────────────────────────
// RenderService pipeline tests (fake rasterizer, real stores)
// ─────────────────────────────────────────────────────────────

// fakeRasterizer returns a solid white raster at the scene's exact
// dimensions and counts invocations.
type fakeRasterizer struct {
	calls int
	err   error
}

func (f *fakeRasterizer) Rasterize(_ context.Context, sc scene.Scene) (image.Image, error) {
	f.calls++
	if f.err != nil {
		return nil, f.err
	}
	img := image.NewRGBA(image.Rect(0, 0, sc.Width, sc.Height))
	for i := range img.Pix {
		img.Pix[i] = 255
	}
	return img, nil
}

type fixture struct {
	designs    *storage.DesignStore
	devices    *storage.DeviceStore
	customs    *storage.CustomWidgetStore
	captures   *cache.CaptureCache
	drawings   *overlay.DrawingStore
	rasterizer *fakeRasterizer
	notifier   *service.MockNotifier

	render *service.RenderService
	design *service.DesignService
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	dir := t.TempDir()
	db, err := storage.New(filepath.Join(dir, "test.db"), dir)
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	captures, err := cache.NewCaptureCache(filepath.Join(dir, "captures"))
	if err != nil {
		t.Fatal(err)
	}
	drawings, err := overlay.NewDrawingStore(filepath.Join(dir, "drawings"))
	if err != nil {
		t.Fatal(err)
	}

	f := &fixture{
		designs:    storage.NewDesignStore(db),
		devices:    storage.NewDeviceStore(db),
		customs:    storage.NewCustomWidgetStore(db),
		captures:   captures,
		drawings:   drawings,
		rasterizer: &fakeRasterizer{},
		notifier:   &service.MockNotifier{},
	}
	registry := widget.NewRegistry(nil, f.customs, nil, nil, time.UTC)
	f.render = service.NewRenderService(f.designs, registry, f.rasterizer, drawings, captures, f.customs)
	f.design = service.NewDesignService(f.designs, captures, drawings, f.notifier)
	return f
}

func (f *fixture) mustCreateDesign(t *testing.T) *domain.ScreenDesign {
	t.Helper()
	d, err := f.design.CreateDesign("test", 32, 16, "")
	if err != nil {
		t.Fatalf("CreateDesign: %v", err)
	}
	return d
}

func decodeGray(t *testing.T, data []byte) image.Image {
	t.Helper()
	img, err := png.Decode(bytes.NewReader(data))
	if err != nil {
		t.Fatalf("decode render output: %v", err)
	}
	return img
}

func TestRenderDesign_DeviceOutputInverted(t *testing.T) {
	f := newFixture(t)
	d := f.mustCreateDesign(t)

	// An empty design rasterizes to a white canvas; device polarity
	// inverts it to all black, the e-ink preview keeps it white.
	data, err := f.render.RenderDesign(context.Background(), d.ID, domain.ModeDevice, nil)
	if err != nil {
		t.Fatalf("device render: %v", err)
	}
	img := decodeGray(t, data)
	if b := img.Bounds(); b.Dx() != 32 || b.Dy() != 16 {
		t.Fatalf("device output is %dx%d, want design dimensions 32x16", b.Dx(), b.Dy())
	}
	if y := color.GrayModel.Convert(img.At(5, 5)).(color.Gray).Y; y != 0 {
		t.Errorf("device pixel luminance %d, want 0 (inverted white)", y)
	}

	f.captures.Invalidate(d.ID)
	data, err = f.render.RenderDesign(context.Background(), d.ID, domain.ModeEinkPreview, nil)
	if err != nil {
		t.Fatalf("eink preview render: %v", err)
	}
	img = decodeGray(t, data)
	if y := color.GrayModel.Convert(img.At(5, 5)).(color.Gray).Y; y != 255 {
		t.Errorf("eink preview pixel luminance %d, want 255", y)
	}
}

func TestRenderDesign_CaptureCacheHitAndInvalidate(t *testing.T) {
	f := newFixture(t)
	d := f.mustCreateDesign(t)
	ctx := context.Background()

	if _, err := f.render.RenderDesign(ctx, d.ID, domain.ModeDevice, nil); err != nil {
		t.Fatal(err)
	}
	if f.rasterizer.calls != 1 {
		t.Fatalf("first render: %d rasterizer calls, want 1", f.rasterizer.calls)
	}

	if _, err := f.render.RenderDesign(ctx, d.ID, domain.ModeDevice, nil); err != nil {
		t.Fatal(err)
	}
	if f.rasterizer.calls != 1 {
		t.Fatalf("cached render hit the rasterizer (%d calls)", f.rasterizer.calls)
	}

	// mutating the design invalidates the capture
	if _, err := f.design.AddWidget(d.ID, domain.KindRectangle, 0, 0, 8, 8, ""); err != nil {
		t.Fatal(err)
	}
	if _, err := f.render.RenderDesign(ctx, d.ID, domain.ModeDevice, nil); err != nil {
		t.Fatal(err)
	}
	if f.rasterizer.calls != 2 {
		t.Fatalf("post-mutation render: %d rasterizer calls, want 2", f.rasterizer.calls)
	}

	if len(f.notifier.DesignIDs) == 0 || f.notifier.DesignIDs[0] != d.ID {
		t.Errorf("notifier calls = %v, want the mutated design", f.notifier.DesignIDs)
	}
}

func TestRenderDesign_PreviewNotCached(t *testing.T) {
	f := newFixture(t)
	d := f.mustCreateDesign(t)

	if _, err := f.render.RenderDesign(context.Background(), d.ID, domain.ModePreview, nil); err != nil {
		t.Fatal(err)
	}
	if _, ok := f.captures.Get(d.ID); ok {
		t.Fatal("preview render must not populate the device capture cache")
	}
}

func TestRenderDesign_CaptureFailureSurfaces(t *testing.T) {
	f := newFixture(t)
	d := f.mustCreateDesign(t)
	f.rasterizer.err = fmt.Errorf("engine crashed")

	_, err := f.render.RenderDesign(context.Background(), d.ID, domain.ModePreview, nil)
	if err == nil {
		t.Fatal("rasterizer failure must surface to the caller")
	}
	if !errors.Is(err, f.rasterizer.err) {
		t.Errorf("error %v does not wrap the rasterizer failure", err)
	}
}

func TestRenderDesign_UnknownDesign(t *testing.T) {
	f := newFixture(t)
	_, err := f.render.RenderDesign(context.Background(), "missing", domain.ModePreview, nil)
	if !errors.Is(err, storage.ErrNotFound) {
		t.Errorf("got %v, want ErrNotFound", err)
	}
	if f.rasterizer.calls != 0 {
		t.Error("rasterizer invoked for a missing design")
	}
}

func TestRenderDesign_DanglingCustomWidgetFailsBeforeRender(t *testing.T) {
	f := newFixture(t)
	d := f.mustCreateDesign(t)
	if _, err := f.design.AddWidget(d.ID, domain.KindCustom, 0, 0, 8, 8, `{"widgetId":"gone"}`); err != nil {
		t.Fatal(err)
	}

	_, err := f.render.RenderDesign(context.Background(), d.ID, domain.ModePreview, nil)
	if !errors.Is(err, storage.ErrNotFound) {
		t.Fatalf("got %v, want ErrNotFound for dangling custom widget", err)
	}
	if f.rasterizer.calls != 0 {
		t.Error("rasterizer invoked despite dangling custom widget reference")
	}
}

func TestRenderDesign_DrawingComposited(t *testing.T) {
	f := newFixture(t)
	d := f.mustCreateDesign(t)

	stroke := image.NewRGBA(image.Rect(0, 0, 32, 16))
	stroke.Set(3, 3, color.RGBA{A: 255}) // one opaque black dot
	var buf bytes.Buffer
	if err := png.Encode(&buf, stroke); err != nil {
		t.Fatal(err)
	}
	if err := f.design.SaveDrawing(d.ID, buf.Bytes()); err != nil {
		t.Fatalf("SaveDrawing: %v", err)
	}

	data, err := f.render.RenderDesign(context.Background(), d.ID, domain.ModePreview, nil)
	if err != nil {
		t.Fatal(err)
	}
	img := decodeGray(t, data)
	if y := color.GrayModel.Convert(img.At(3, 3)).(color.Gray).Y; y != 0 {
		t.Errorf("stroke pixel luminance %d, want 0", y)
	}
	if y := color.GrayModel.Convert(img.At(10, 10)).(color.Gray).Y; y != 255 {
		t.Errorf("untouched pixel luminance %d, want 255", y)
	}
}

func TestRenderPreviewThumbnail_CapsWidth(t *testing.T) {
	f := newFixture(t)
	d, err := f.design.CreateDesign("wide", 800, 480, "")
	if err != nil {
		t.Fatal(err)
	}

	data, err := f.render.RenderPreviewThumbnail(context.Background(), d.ID)
	if err != nil {
		t.Fatalf("RenderPreviewThumbnail: %v", err)
	}
	img := decodeGray(t, data)
	if b := img.Bounds(); b.Dx() != 400 || b.Dy() != 240 {
		t.Errorf("thumbnail is %dx%d, want 400x240", b.Dx(), b.Dy())
	}
}

func TestDesignService_DeleteCleansUp(t *testing.T) {
	f := newFixture(t)
	d := f.mustCreateDesign(t)

	if _, err := f.render.RenderDesign(context.Background(), d.ID, domain.ModeDevice, nil); err != nil {
		t.Fatal(err)
	}
	if _, ok := f.captures.Get(d.ID); !ok {
		t.Fatal("expected a cached capture before delete")
	}

	if err := f.design.DeleteDesign(d.ID); err != nil {
		t.Fatalf("DeleteDesign: %v", err)
	}
	if _, ok := f.captures.Get(d.ID); ok {
		t.Error("capture survived design deletion")
	}
	if _, err := f.designs.GetDesign(d.ID); !errors.Is(err, storage.ErrNotFound) {
		t.Errorf("design still present: %v", err)
	}
}

func TestDeviceService_AssignAndReport(t *testing.T) {
	f := newFixture(t)
	devices := service.NewDeviceService(f.devices)

	dev, err := devices.RegisterDevice("kitchen", "aa:bb", "1.0.0")
	if err != nil {
		t.Fatalf("RegisterDevice: %v", err)
	}

	d := f.mustCreateDesign(t)
	if err := devices.AssignDesign(dev.ID, d.ID); err != nil {
		t.Fatalf("AssignDesign: %v", err)
	}
	got, _ := devices.GetDevice(dev.ID)
	if got.DesignID != d.ID || !got.RefreshPending {
		t.Errorf("after assign: %+v, want design set and refresh pending", got)
	}

	pct := 50
	got, err = devices.ReportState(dev.ID, &pct, nil, "1.1.0")
	if err != nil {
		t.Fatalf("ReportState: %v", err)
	}
	if got.RefreshPending {
		t.Error("refresh flag must clear when the device reports in")
	}
	if got.Battery == nil || *got.Battery != 50 || got.Firmware != "1.1.0" {
		t.Errorf("telemetry not recorded: %+v", got)
	}
}

func TestCustomWidgetService_PushInvalidatesReferencingDesigns(t *testing.T) {
	f := newFixture(t)
	customs := service.NewCustomWidgetService(f.customs, f.designs, f.captures, f.notifier)

	cw, err := customs.CreateCustomWidget("stats", `"initial"`)
	if err != nil {
		t.Fatalf("CreateCustomWidget: %v", err)
	}

	d := f.mustCreateDesign(t)
	if _, err := f.design.AddWidget(d.ID, domain.KindCustom, 0, 0, 8, 8, fmt.Sprintf(`{"widgetId":%q}`, cw.ID)); err != nil {
		t.Fatal(err)
	}

	if _, err := f.render.RenderDesign(context.Background(), d.ID, domain.ModeDevice, nil); err != nil {
		t.Fatal(err)
	}
	if _, ok := f.captures.Get(d.ID); !ok {
		t.Fatal("expected a cached capture")
	}

	if err := customs.PushContent(cw.ID, `"updated"`); err != nil {
		t.Fatalf("PushContent: %v", err)
	}
	if _, ok := f.captures.Get(d.ID); ok {
		t.Error("capture survived a custom content push")
	}
}
