package classmap

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/require"
)

func TestScanSource(t *testing.T) {
	src := `<?php
namespace Foo\Bar;

/**
 * class NotAClass is only mentioned in a comment
 */
final class Baz {}
interface Qux {}

namespace Other {
    abstract class Thing {}
    trait Helper {}
    enum Suit {}
}
`
	decls := scanSource("/x.php", src)
	var names []string
	for _, d := range decls {
		names = append(names, d.class)
	}
	want := []string{`Foo\Bar\Baz`, `Foo\Bar\Qux`, `Other\Thing`, `Other\Helper`, `Other\Suit`}
	if diff := cmp.Diff(want, names); diff != "" {
		t.Errorf("unexpected declarations (-want +got):\n%s", diff)
	}
}

func TestScanSource_GlobalNamespace(t *testing.T) {
	decls := scanSource("/x.php", "<?php\nclass Zend_Loader_Legacy {}\n")
	require.Len(t, decls, 1)
	require.Equal(t, "Zend_Loader_Legacy", decls[0].class)
}

func TestGenerate(t *testing.T) {
	root := t.TempDir()
	writeFile(t, root, "src/App/User.php", "<?php\nnamespace App;\nclass User {}\n")
	writeFile(t, root, "src/App/Model/Post.php", "<?php\nnamespace App\\Model;\nclass Post {}\ninterface Publishable {}\n")
	writeFile(t, root, "src/Legacy/Old.php", "<?php\nclass Legacy_Old {}\n")
	writeFile(t, root, "src/App/UserTest.php", "<?php\nnamespace App;\nclass UserTest {}\n")
	writeFile(t, root, "vendor/lib/Vendor.php", "<?php\nnamespace Vendor;\nclass Lib {}\n")
	writeFile(t, root, "README.md", "class Readme {}\n")

	m, err := Generate(context.Background(), root, GenerateOptions{
		Exclude:    []string{"*Test.php", "vendor"},
		Workers:    2,
		RelativeTo: root,
	})
	require.NoError(t, err)

	want := map[string]string{
		`App\User`:              filepath.Join("src", "App", "User.php"),
		`App\Model\Post`:        filepath.Join("src", "App", "Model", "Post.php"),
		`App\Model\Publishable`: filepath.Join("src", "App", "Model", "Post.php"),
		"Legacy_Old":            filepath.Join("src", "Legacy", "Old.php"),
	}
	if diff := cmp.Diff(want, m); diff != "" {
		t.Errorf("unexpected class map (-want +got):\n%s", diff)
	}
}

func TestGenerate_AbsolutePaths(t *testing.T) {
	root := t.TempDir()
	path := writeFile(t, root, "A.php", "<?php\nclass A {}\n")

	m, err := Generate(context.Background(), root, GenerateOptions{})
	require.NoError(t, err)
	require.Equal(t, map[string]string{"A": path}, m)
}

func TestGenerate_CustomExtension(t *testing.T) {
	root := t.TempDir()
	writeFile(t, root, "A.inc", "<?php\nclass A {}\n")
	writeFile(t, root, "B.php", "<?php\nclass B {}\n")

	m, err := Generate(context.Background(), root, GenerateOptions{Extension: ".inc", RelativeTo: root})
	require.NoError(t, err)
	require.Equal(t, map[string]string{"A": "A.inc"}, m)
}

func TestGenerate_Duplicate(t *testing.T) {
	root := t.TempDir()
	writeFile(t, root, "one/A.php", "<?php\nclass A {}\n")
	writeFile(t, root, "two/A.php", "<?php\nclass A {}\n")

	_, err := Generate(context.Background(), root, GenerateOptions{})
	require.ErrorIs(t, err, ErrDuplicateClass)
}

func TestGenerate_MissingRoot(t *testing.T) {
	_, err := Generate(context.Background(), filepath.Join(t.TempDir(), "missing"), GenerateOptions{})
	require.Error(t, err)
}
