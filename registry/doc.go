/*
Package registry 提供自动加载器注册表。

# 概述

当运行时遇到无法解析的类名时，会按顺序调用“类未找到”回调列表中的回调，
由回调给出类定义文件的位置。registry 包负责管理这些回调的来源：

  - 将策略标识解析为策略实例（首次出现时创建，之后复用）
  - 把调用方提供的选项合并到策略实例中
  - 把策略实例安装到运行时回调列表，每个实例只安装一次
  - 注销时只移除自己安装的回调

# 核心概念

## Registry（注册表）

Registry 是注册表的对外接口，实现类型不导出，只能通过 New 或 NewWithStack 创建。

主要功能：
  - Configure: 注册或扩展自动加载器
  - Autoloader/MustAutoloader: 获取指定标识的策略实例
  - Autoloaders/List: 按注册顺序列出策略实例和标识
  - Unregister: 注销单个策略
  - UnregisterAll: 注销所有策略

## 策略标识

策略集合是封闭的，标识即 loader.Kind：

  - "standard": 命名空间 / 前缀策略（loader.Standard），也是默认策略
  - "classmap": 类映射策略（loader.ClassMap）

## Runtime（运行时）

注册表依赖 hook.Runtime 提供的 Install / Remove。hook.Stack 是进程内实现，
也可以注入其他实现以便测试或对接宿主环境。

# 使用示例

## 基础用法

	reg, stack := registry.NewWithStack()

	err := reg.Configure(ctx, registry.Spec{
	    {ID: "classmap", Options: []string{"autoload_classmap.json"}},
	    {ID: "standard", Options: map[string]any{
	        "namespaces": map[string]string{`App`: "/srv/app/src"},
	        "prefixes":   map[string]string{"Legacy": "/srv/app/legacy"},
	    }},
	})
	if err != nil {
	    log.Fatal(err)
	}

	path, ok := stack.Resolve(`App\Model\User`)

## 合并配置

对同一标识重复调用 Configure 不会创建第二个实例：

	reg.Configure(ctx, registry.Spec{{ID: "classmap", Options: []string{"a.json"}}})
	reg.Configure(ctx, registry.Spec{{ID: "classmap", Options: []string{"b.json"}}})

	len(reg.Autoloaders()) // 1，映射中同时包含 a.json 和 b.json 的内容

## 默认策略

	reg.Configure(ctx, nil) // 注册一个没有任何选项的 standard 策略

# 错误处理

包中定义了以下错误类型：

  - ErrInvalidConfiguration: 配置无效（类型错误、标识未知、选项结构错误）
  - ErrUnknownAutoloader: 指定的标识未注册

可以使用 errors.Is 进行错误类型判断。策略返回的原始错误同样可以通过 errors.Is 判断。

Configure 采用“快速失败、不回滚”的策略：多项配置中某一项失败时，
之前已经处理的项保持注册状态。

# 并发安全

所有公开的方法都是并发安全的，内部使用读写锁（sync.RWMutex）保护：

  - 读操作（Autoloader、Autoloaders、List）使用读锁
  - 写操作（Configure、Unregister、UnregisterAll）在整个调用期间持有写锁
*/
package registry
