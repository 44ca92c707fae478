package core

import "time"

// Preferences 是用户在每个类目下的偏好向量。
// 初始为空向量，首次更新时被初始化为商品 embedding 维度的零向量。
type Preferences struct {
	Clothing    Vector `json:"clothing"`
	Footwear    Vector `json:"footwear"`
	Accessories Vector `json:"accessories"`
}

// Get 返回类目 c 的偏好向量副本；未初始化时返回空向量。
func (p Preferences) Get(c Category) Vector {
	var v Vector
	switch c {
	case CategoryClothing:
		v = p.Clothing
	case CategoryFootwear:
		v = p.Footwear
	case CategoryAccessories:
		v = p.Accessories
	}
	if len(v) == 0 {
		return Vector{}
	}
	return append(Vector(nil), v...)
}

// Set 写入类目 c 的偏好向量（存储副本）。
func (p *Preferences) Set(c Category, v Vector) {
	cp := append(Vector(nil), v...)
	switch c {
	case CategoryClothing:
		p.Clothing = cp
	case CategoryFootwear:
		p.Footwear = cp
	case CategoryAccessories:
		p.Accessories = cp
	}
}

// Clone 深拷贝偏好向量。
func (p Preferences) Clone() Preferences {
	var out Preferences
	for _, c := range Categories() {
		if v := p.Get(c); len(v) > 0 {
			out.Set(c, v)
		}
	}
	return out
}

// User 是用户实体：静态属性（性别）+ 偏好向量 + 交互历史。
// 偏好向量只归属于该用户，只由偏好更新规则修改。
type User struct {
	ID          string      `json:"id"`
	Username    string      `json:"username"`
	Email       string      `json:"email"`
	Gender      Gender      `json:"gender"`
	Preferences Preferences `json:"preferences"`
	History     History     `json:"history"`
	CreatedAt   time.Time   `json:"created_at"`
	UpdatedAt   time.Time   `json:"updated_at"`
}

// NewUser 创建一个新用户，性别为空时默认 unisex。
func NewUser(id string, gender Gender) *User {
	if gender == "" {
		gender = GenderUnisex
	}
	now := time.Now()
	return &User{
		ID:        id,
		Gender:    gender,
		CreatedAt: now,
		UpdatedAt: now,
	}
}

// Clone 深拷贝用户，核心逻辑只修改副本并把副本交给调用方持久化。
func (u *User) Clone() *User {
	if u == nil {
		return nil
	}
	cp := *u
	cp.Preferences = u.Preferences.Clone()
	cp.History = u.History.Clone()
	return &cp
}
