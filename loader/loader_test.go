package loader

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/require"

	"github.com/qq1060656096/autoload/hook"
)

var (
	_ hook.Callback = (*Standard)(nil)
	_ hook.Callback = (*ClassMap)(nil)
)

func touch(t *testing.T, path string) string {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte("<?php\n"), 0o644))
	return path
}

// staticSource 返回一个不访问文件系统的 MapSource。
func staticSource(maps map[string]map[string]string, calls *int) MapSource {
	return func(_ context.Context, path string) (map[string]string, error) {
		if calls != nil {
			*calls++
		}
		m, ok := maps[path]
		if !ok {
			return nil, os.ErrNotExist
		}
		return m, nil
	}
}

func TestParseKind(t *testing.T) {
	k, err := ParseKind(" standard ")
	require.NoError(t, err)
	require.Equal(t, KindStandard, k)

	k, err = ParseKind("classmap")
	require.NoError(t, err)
	require.Equal(t, KindClassMap, k)

	_, err = ParseKind("InvalidAutoloader")
	require.ErrorIs(t, err, ErrUnknownKind)
}

func TestNew(t *testing.T) {
	for _, kind := range Kinds() {
		l, err := New(kind)
		require.NoError(t, err)
		require.Equal(t, kind, l.Kind())
	}
	_, err := New(Kind("nope"))
	require.ErrorIs(t, err, ErrUnknownKind)
}

// ============== ClassMap 测试 ==============

func TestClassMap_ConfigureFiles(t *testing.T) {
	src := staticSource(map[string]map[string]string{
		"a.json": {"A": "/a/A.php", `\Ns\B`: "/a/B.php"},
	}, nil)
	c := NewClassMap(WithMapSource(src))

	require.NoError(t, c.Configure(context.Background(), []any{"a.json"}))
	require.Equal(t, map[string]string{"A": "/a/A.php", `Ns\B`: "/a/B.php"}, c.AutoloadMap())
	require.Equal(t, []string{"a.json"}, c.MapsLoaded())

	p, ok := c.Autoload(`\Ns\B`)
	require.True(t, ok)
	require.Equal(t, "/a/B.php", p)

	_, ok = c.Autoload("Missing")
	require.False(t, ok)
}

func TestClassMap_ConfigureMergesAcrossCalls(t *testing.T) {
	calls := 0
	src := staticSource(map[string]map[string]string{
		"a.json": {"A": "/a/A.php", "Shared": "/a/Shared.php"},
		"b.json": {"B": "/b/B.php", "Shared": "/b/Shared.php"},
	}, &calls)
	c := NewClassMap(WithMapSource(src))
	ctx := context.Background()

	require.NoError(t, c.Configure(ctx, []string{"a.json"}))
	require.NoError(t, c.Configure(ctx, map[string]any{OptFiles: []any{"b.json"}}))
	// 同一个文件不会被重复加载
	require.NoError(t, c.Configure(ctx, "a.json"))

	want := map[string]string{"A": "/a/A.php", "B": "/b/B.php", "Shared": "/b/Shared.php"}
	if diff := cmp.Diff(want, c.AutoloadMap()); diff != "" {
		t.Errorf("unexpected merged map (-want +got):\n%s", diff)
	}
	require.Equal(t, 2, calls)
	require.Equal(t, []string{"a.json", "b.json"}, c.MapsLoaded())
}

func TestClassMap_InlineMaps(t *testing.T) {
	c := NewClassMap(WithMapSource(staticSource(nil, nil)))
	err := c.Configure(context.Background(), []any{
		map[string]any{"Inline": "/inline.php"},
		map[string]string{"Other": "/other.php"},
	})
	require.NoError(t, err)
	require.Len(t, c.AutoloadMap(), 2)

	require.NoError(t, c.Configure(context.Background(), []map[string]string{{"Third": "/third.php"}}))
	require.Len(t, c.AutoloadMap(), 3)
}

func TestClassMap_InvalidOptions(t *testing.T) {
	c := NewClassMap(WithMapSource(staticSource(nil, nil)))
	ctx := context.Background()

	require.ErrorIs(t, c.Configure(ctx, 42), ErrInvalidOptions)
	require.ErrorIs(t, c.Configure(ctx, []any{42}), ErrInvalidOptions)
	require.ErrorIs(t, c.Configure(ctx, map[string]any{OptFiles: true}), ErrInvalidOptions)
	require.ErrorIs(t, c.Configure(ctx, []any{map[string]any{"A": 1}}), ErrInvalidOptions)
}

func TestClassMap_MissingMapFile(t *testing.T) {
	c := NewClassMap(WithMapSource(staticSource(nil, nil)))
	err := c.Configure(context.Background(), []string{"missing.json"})
	require.ErrorIs(t, err, ErrInvalidOptions)
	require.True(t, errors.Is(err, os.ErrNotExist))
	require.Empty(t, c.MapsLoaded())
}

func TestClassMap_NilAndUnrelatedOptions(t *testing.T) {
	c := NewClassMap()
	require.NoError(t, c.Configure(context.Background(), nil))
	require.NoError(t, c.Configure(context.Background(), map[string]any{"unrelated": 1}))
	require.Empty(t, c.AutoloadMap())
}

func TestClassMap_DefaultSourceReadsFiles(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "goodmap.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"Map_Loaded": "Map/Loaded.php", "Other": "/abs/Other.php"}`), 0o644))

	c := NewClassMap()
	require.NoError(t, c.Configure(context.Background(), []string{path}))
	require.Len(t, c.AutoloadMap(), 2)

	p, ok := c.Autoload("Map_Loaded")
	require.True(t, ok)
	require.Equal(t, filepath.Join(dir, "Map", "Loaded.php"), p)
}

// ============== Standard 测试 ==============

func TestStandard_Namespaces(t *testing.T) {
	dir := t.TempDir()
	touch(t, filepath.Join(dir, "app", "Model", "Post.php"))
	touch(t, filepath.Join(dir, "app", "Http", "Some", "Thing.php"))

	s := NewStandard()
	require.NoError(t, s.Configure(context.Background(), map[string]any{
		OptNamespaces: map[string]any{`App\`: filepath.Join(dir, "app")},
	}))

	p, ok := s.Autoload(`\App\Model\Post`)
	require.True(t, ok)
	require.Equal(t, filepath.Join(dir, "app", "Model", "Post.php"), p)

	// 最后一段类名中的下划线转换为目录
	p, ok = s.Autoload(`App\Http\Some_Thing`)
	require.True(t, ok)
	require.Equal(t, filepath.Join(dir, "app", "Http", "Some", "Thing.php"), p)

	_, ok = s.Autoload(`App\Model\Missing`)
	require.False(t, ok)
	_, ok = s.Autoload(`Application\Model\Post`)
	require.False(t, ok, "namespace must match on a separator boundary")
}

func TestStandard_LongestNamespaceWins(t *testing.T) {
	dir := t.TempDir()
	touch(t, filepath.Join(dir, "short", "Sub", "Thing.php"))
	touch(t, filepath.Join(dir, "long", "Thing.php"))
	touch(t, filepath.Join(dir, "short", "Sub", "Other.php"))

	s := NewStandard()
	require.NoError(t, s.Configure(context.Background(), map[string]any{
		OptNamespaces: map[string]string{
			`Vendor`:     filepath.Join(dir, "short"),
			`Vendor\Sub`: filepath.Join(dir, "long"),
		},
	}))

	p, ok := s.Autoload(`Vendor\Sub\Thing`)
	require.True(t, ok)
	require.Equal(t, filepath.Join(dir, "long", "Thing.php"), p)

	// 最长候选不存在时继续尝试较短的
	p, ok = s.Autoload(`Vendor\Sub\Other`)
	require.True(t, ok)
	require.Equal(t, filepath.Join(dir, "short", "Sub", "Other.php"), p)
}

func TestStandard_Prefixes(t *testing.T) {
	dir := t.TempDir()
	touch(t, filepath.Join(dir, "prefix", "NoDuplicateAutoloadersCase.php"))
	touch(t, filepath.Join(dir, "plugins", "Foo.php"))

	s := NewStandard()
	ctx := context.Background()
	require.NoError(t, s.Configure(ctx, map[string]any{
		OptPrefixes: map[string]any{"TestPrefix": filepath.Join(dir, "prefix")},
	}))
	require.NoError(t, s.Configure(ctx, map[string]any{
		OptPrefixes: map[string]any{"ZendTest_Loader_TestAsset_TestPlugins_": filepath.Join(dir, "plugins")},
	}))

	_, ok := s.Autoload("TestPrefix_NoDuplicateAutoloadersCase")
	require.True(t, ok)
	_, ok = s.Autoload("ZendTest_Loader_TestAsset_TestPlugins_Foo")
	require.True(t, ok)
	_, ok = s.Autoload("TestPrefixed_Foo")
	require.False(t, ok)
	require.Len(t, s.Prefixes(), 2)
}

func TestStandard_Fallback(t *testing.T) {
	dir := t.TempDir()
	touch(t, filepath.Join(dir, "lib", "Legacy", "Thing.php"))

	s := NewStandard()
	_, ok := s.Autoload("Legacy_Thing")
	require.False(t, ok)

	require.NoError(t, s.Configure(context.Background(), map[string]any{
		OptFallbackAutoloader: true,
		OptIncludePaths:       []any{filepath.Join(dir, "missing"), filepath.Join(dir, "lib")},
	}))
	require.True(t, s.IsFallbackAutoloader())

	p, ok := s.Autoload("Legacy_Thing")
	require.True(t, ok)
	require.Equal(t, filepath.Join(dir, "lib", "Legacy", "Thing.php"), p)

	s.SetFallbackAutoloader(false)
	_, ok = s.Autoload("Legacy_Thing")
	require.False(t, ok)
}

func TestStandard_Extension(t *testing.T) {
	var checked []string
	s := NewStandard(WithFileExists(func(path string) bool {
		checked = append(checked, path)
		return true
	}))
	require.NoError(t, s.Configure(context.Background(), map[string]any{
		OptNamespaces: map[string]string{"Foo": "/src/Foo"},
		OptExtension:  ".inc",
	}))

	p, ok := s.Autoload(`Foo\Bar`)
	require.True(t, ok)
	require.Equal(t, filepath.FromSlash("/src/Foo/Bar.inc"), p)
	require.Equal(t, []string{p}, checked)
}

func TestStandard_InvalidOptionsLeaveStateUntouched(t *testing.T) {
	s := NewStandard()
	ctx := context.Background()

	cases := []any{
		"not-a-mapping",
		[]any{"x"},
		map[string]any{OptNamespaces: "not-a-mapping"},
		map[string]any{OptPrefixes: map[string]any{"A": 1}},
		map[string]any{OptFallbackAutoloader: "yes"},
		map[string]any{OptIncludePaths: 3},
		map[string]any{OptExtension: ""},
		map[string]any{OptNamespaces: map[string]string{`\`: "/x"}},
		map[string]any{OptPrefixes: map[string]string{"_": "/x"}, OptNamespaces: map[string]string{"Ok": "/ok"}},
	}
	for _, opts := range cases {
		require.ErrorIs(t, s.Configure(ctx, opts), ErrInvalidOptions, "options %#v", opts)
	}
	require.Empty(t, s.Namespaces())
	require.Empty(t, s.Prefixes())
	require.False(t, s.IsFallbackAutoloader())
}

func TestStandard_IgnoresUnknownKeys(t *testing.T) {
	s := NewStandard()
	require.NoError(t, s.Configure(context.Background(), map[string]any{"autoregister_zf": true}))
}

func TestStandard_RegisterHelpers(t *testing.T) {
	s := NewStandard()
	require.NoError(t, s.RegisterNamespace(`Foo\`, "/foo"))
	require.NoError(t, s.RegisterPrefix("Bar_", "/bar"))
	require.Equal(t, map[string]string{"Foo": "/foo"}, s.Namespaces())
	require.Equal(t, map[string]string{"Bar": "/bar"}, s.Prefixes())
}

func TestStandard_Transform(t *testing.T) {
	s := NewStandard()
	got := s.transform(`Foo\Bar_Baz\Qux_Quux`)
	require.Equal(t, filepath.FromSlash("Foo/Bar_Baz/Qux/Quux.php"), got)
}
