package observability

import (
	"context"
	"testing"
	"time"
)

func TestNoopHooksDoNotPanic(t *testing.T) {
	ctx := context.Background()

	l := NoopLayoutHooks{}
	l.OnLayout(ctx, 2, 3.5, true, time.Millisecond)
	l.OnRender(ctx, "svg", 2048, time.Millisecond, nil)

	d := NoopDragHooks{}
	d.OnDragStart("g1")
	d.OnDragMove("g1", false, "too close to left edge")
	d.OnDragEnd("g1", true)

	s := NoopStoreHooks{}
	s.OnLoad(ctx, "sqlite", "sockets", time.Millisecond, nil)
	s.OnSave(ctx, "sqlite", "sockets", 3, time.Millisecond, nil)

	c := NoopCacheHooks{}
	c.OnCacheHit(ctx, "render")
	c.OnCacheMiss(ctx, "render")
	c.OnCacheSet(ctx, "render", 1024)

	h := NoopHTTPHooks{}
	h.OnRequest(ctx, "GET", "/api/layout")
	h.OnResponse(ctx, "GET", "/api/layout", 200, time.Millisecond)
}

func TestGlobalHooksRegistry(t *testing.T) {
	Reset()

	if _, ok := Layout().(NoopLayoutHooks); !ok {
		t.Error("Layout() should return NoopLayoutHooks by default")
	}
	if _, ok := Drag().(NoopDragHooks); !ok {
		t.Error("Drag() should return NoopDragHooks by default")
	}
	if _, ok := Store().(NoopStoreHooks); !ok {
		t.Error("Store() should return NoopStoreHooks by default")
	}
	if _, ok := Cache().(NoopCacheHooks); !ok {
		t.Error("Cache() should return NoopCacheHooks by default")
	}
	if _, ok := HTTP().(NoopHTTPHooks); !ok {
		t.Error("HTTP() should return NoopHTTPHooks by default")
	}

	customLayout := &testLayoutHooks{}
	SetLayoutHooks(customLayout)
	if Layout() != customLayout {
		t.Error("SetLayoutHooks should set custom hooks")
	}

	customDrag := &testDragHooks{}
	SetDragHooks(customDrag)
	if Drag() != customDrag {
		t.Error("SetDragHooks should set custom hooks")
	}

	customStore := &testStoreHooks{}
	SetStoreHooks(customStore)
	if Store() != customStore {
		t.Error("SetStoreHooks should set custom hooks")
	}

	customCache := &testCacheHooks{}
	SetCacheHooks(customCache)
	if Cache() != customCache {
		t.Error("SetCacheHooks should set custom hooks")
	}

	customHTTP := &testHTTPHooks{}
	SetHTTPHooks(customHTTP)
	if HTTP() != customHTTP {
		t.Error("SetHTTPHooks should set custom hooks")
	}

	Reset()
	if _, ok := Drag().(NoopDragHooks); !ok {
		t.Error("Reset() should restore NoopDragHooks")
	}
}

func TestSetNilHooksIsIgnored(t *testing.T) {
	Reset()

	custom := &testDragHooks{}
	SetDragHooks(custom)
	SetDragHooks(nil)

	if Drag() != custom {
		t.Error("SetDragHooks(nil) should be ignored")
	}

	Reset()
}

// Test implementations
type testLayoutHooks struct{ NoopLayoutHooks }
type testDragHooks struct{ NoopDragHooks }
type testStoreHooks struct{ NoopStoreHooks }
type testCacheHooks struct{ NoopCacheHooks }
type testHTTPHooks struct{ NoopHTTPHooks }
