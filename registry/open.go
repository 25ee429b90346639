package registry

import "github.com/qq1060656096/autoload/loader"

// Opener 是策略实例的创建函数。
//
// 注册表在某个标识第一次出现时调用 Opener 创建策略实例，
// 之后对同一标识的 Configure 都作用在这个实例上。
//
// 默认使用 loader.New。测试中可以替换为返回预先配置好依赖的实例，例如:
//
//	opener := func(kind loader.Kind) (loader.Loader, error) {
//	    if kind == loader.KindClassMap {
//	        return loader.NewClassMap(loader.WithMapSource(fakeSource)), nil
//	    }
//	    return loader.New(kind)
//	}
type Opener func(kind loader.Kind) (loader.Loader, error)

// Option 配置注册表。
type Option func(*registry)

// WithOpener 替换创建策略实例的函数。
func WithOpener(opener Opener) Option {
	return func(r *registry) {
		if opener != nil {
			r.opener = opener
		}
	}
}
