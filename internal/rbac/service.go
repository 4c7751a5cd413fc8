package rbac

import "sync"

// PermissionSet 一次会话解析后的角色与权限快照
// 快照只整体替换、不原地修改；nil 快照表示未登录，所有查询失败关闭（返回false）
type PermissionSet struct {
	Role  string
	perms map[string]struct{}
}

// NewPermissionSet 根据角色与权限列表构建快照
func NewPermissionSet(role string, permissions []string) *PermissionSet {
	perms := make(map[string]struct{}, len(permissions))
	for _, p := range permissions {
		perms[p] = struct{}{}
	}
	return &PermissionSet{
		Role:  role,
		perms: perms,
	}
}

// Resolve 根据角色从静态注册表解析权限快照
func Resolve(role string) *PermissionSet {
	return NewPermissionSet(role, RolePermissions(role))
}

// HasPermission 检查是否具有指定权限
func (s *PermissionSet) HasPermission(permission string) bool {
	if s == nil {
		return false
	}
	_, ok := s.perms[permission]
	return ok
}

// HasAnyPermission 检查是否具有任一权限（析取）
// 空列表返回false
func (s *PermissionSet) HasAnyPermission(permissions ...string) bool {
	if s == nil {
		return false
	}
	for _, p := range permissions {
		if _, ok := s.perms[p]; ok {
			return true
		}
	}
	return false
}

// CanAccess 检查是否同时具有全部权限（合取）
// 与 HasAnyPermission 的析取语义相对：保护多权限操作必须用本方法
func (s *PermissionSet) CanAccess(permissions ...string) bool {
	if s == nil {
		return false
	}
	for _, p := range permissions {
		if _, ok := s.perms[p]; !ok {
			return false
		}
	}
	return true
}

// HasRole 检查角色标签
func (s *PermissionSet) HasRole(role string) bool {
	if s == nil {
		return false
	}
	return s.Role == role
}

// HasAnyRole 检查是否属于任一角色
func (s *PermissionSet) HasAnyRole(roles ...string) bool {
	if s == nil {
		return false
	}
	for _, r := range roles {
		if s.Role == r {
			return true
		}
	}
	return false
}

// Permissions 返回快照中的权限代码列表
func (s *PermissionSet) Permissions() []string {
	if s == nil {
		return []string{}
	}
	codes := make([]string, 0, len(s.perms))
	for p := range s.perms {
		codes = append(codes, p)
	}
	return codes
}

// Service 权限服务
// 持有当前会话的权限快照，供同一连接内的多次查询复用
// （如WebSocket长连接）。登录时写入，登出时清空，后写覆盖先写
type Service struct {
	mu      sync.RWMutex
	current *PermissionSet
}

// NewService 创建权限服务实例
func NewService() *Service {
	return &Service{}
}

// SetUserPermissions 替换当前会话的角色与权限
func (s *Service) SetUserPermissions(role string, permissions []string) {
	snapshot := NewPermissionSet(role, permissions)
	s.mu.Lock()
	s.current = snapshot
	s.mu.Unlock()
}

// ClearPermissions 清空会话状态（登出）
func (s *Service) ClearPermissions() {
	s.mu.Lock()
	s.current = nil
	s.mu.Unlock()
}

// snapshot 读取当前快照
func (s *Service) snapshot() *PermissionSet {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.current
}

// HasPermission 检查当前会话是否具有指定权限
func (s *Service) HasPermission(permission string) bool {
	return s.snapshot().HasPermission(permission)
}

// HasAnyPermission 检查当前会话是否具有任一权限
func (s *Service) HasAnyPermission(permissions ...string) bool {
	return s.snapshot().HasAnyPermission(permissions...)
}

// CanAccess 检查当前会话是否同时具有全部权限
func (s *Service) CanAccess(permissions ...string) bool {
	return s.snapshot().CanAccess(permissions...)
}

// HasRole 检查当前会话角色
func (s *Service) HasRole(role string) bool {
	return s.snapshot().HasRole(role)
}

// HasAnyRole 检查当前会话是否属于任一角色
func (s *Service) HasAnyRole(roles ...string) bool {
	return s.snapshot().HasAnyRole(roles...)
}

// HasAdminAccess 检查当前会话是否可进入管理台
func (s *Service) HasAdminAccess() bool {
	snapshot := s.snapshot()
	if snapshot == nil {
		return false
	}
	return IsElevated(snapshot.Role)
}
