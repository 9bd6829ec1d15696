// Typed accessors, one Get/Set pair per kind in value.Kinds.

package property

import (
	"unsafe"

	"github.com/roach88/proplink/internal/value"
)

// GetFloat returns the value of a float property.
func (p *Instance) GetFloat() float32 {
	x := p.get("get_float", value.KindFloat)
	return float32(x.(value.Float))
}

// SetFloat writes a float property and propagates.
func (p *Instance) SetFloat(s *Session, v float32) {
	p.set(s, "set_float", value.Float(v))
}

// GetDouble returns the value of a double property.
func (p *Instance) GetDouble() float64 {
	x := p.get("get_double", value.KindDouble)
	return float64(x.(value.Double))
}

// SetDouble writes a double property and propagates.
func (p *Instance) SetDouble(s *Session, v float64) {
	p.set(s, "set_double", value.Double(v))
}

// GetInteger returns the value of an integer property.
func (p *Instance) GetInteger() int32 {
	x := p.get("get_integer", value.KindInteger)
	return int32(x.(value.Integer))
}

// SetInteger writes an integer property and propagates.
func (p *Instance) SetInteger(s *Session, v int32) {
	p.set(s, "set_integer", value.Integer(v))
}

// GetEnum returns the value of an enum property.
func (p *Instance) GetEnum() int32 {
	x := p.get("get_enum", value.KindEnum)
	return int32(x.(value.Enum))
}

// SetEnum writes an enum property and propagates.
func (p *Instance) SetEnum(s *Session, v int32) {
	p.set(s, "set_enum", value.Enum(v))
}

// GetUInt32 returns the value of a uint32 property.
func (p *Instance) GetUInt32() uint32 {
	x := p.get("get_uint32", value.KindUInt32)
	return uint32(x.(value.UInt32))
}

// SetUInt32 writes a uint32 property and propagates.
func (p *Instance) SetUInt32(s *Session, v uint32) {
	p.set(s, "set_uint32", value.UInt32(v))
}

// GetBoolean returns the value of a boolean property.
func (p *Instance) GetBoolean() bool {
	x := p.get("get_boolean", value.KindBoolean)
	return bool(x.(value.Boolean))
}

// SetBoolean writes a boolean property and propagates.
func (p *Instance) SetBoolean(s *Session, v bool) {
	p.set(s, "set_boolean", value.Boolean(v))
}

// GetObject returns the value of an object property.
// The returned *value.Ref is borrowed; Retain it to keep it.
func (p *Instance) GetObject() *value.Ref {
	x := p.get("get_object", value.KindObject)
	return x.(value.Object).Ref
}

// SetObject writes an object property and propagates.
// Storage takes its own reference on v; the caller keeps its reference.
func (p *Instance) SetObject(s *Session, v *value.Ref) {
	p.set(s, "set_object", value.Object{Ref: v})
}

// GetAsset returns the value of an asset property.
// The returned *value.Ref is borrowed; Retain it to keep it.
func (p *Instance) GetAsset() *value.Ref {
	x := p.get("get_asset", value.KindAsset)
	return x.(value.Asset).Ref
}

// SetAsset writes an asset property and propagates.
// Storage takes its own reference on v; the caller keeps its reference.
func (p *Instance) SetAsset(s *Session, v *value.Ref) {
	p.set(s, "set_asset", value.Asset{Ref: v})
}

// GetPointer returns the value of a pointer property.
func (p *Instance) GetPointer() unsafe.Pointer {
	x := p.get("get_pointer", value.KindPointer)
	return x.(value.Pointer).P
}

// SetPointer writes a pointer property and propagates.
func (p *Instance) SetPointer(s *Session, v unsafe.Pointer) {
	p.set(s, "set_pointer", value.Pointer{P: v})
}

// GetQuaternion returns the value of a quaternion property.
func (p *Instance) GetQuaternion() value.Quaternion {
	x := p.get("get_quaternion", value.KindQuaternion)
	return x.(value.Quaternion)
}

// SetQuaternion writes a quaternion property and propagates.
func (p *Instance) SetQuaternion(s *Session, v value.Quaternion) {
	p.set(s, "set_quaternion", v)
}

// GetColor returns the value of a color property.
func (p *Instance) GetColor() value.Color {
	x := p.get("get_color", value.KindColor)
	return x.(value.Color)
}

// SetColor writes a color property and propagates.
func (p *Instance) SetColor(s *Session, v value.Color) {
	p.set(s, "set_color", v)
}

// GetVec3 returns the value of a vec3 property.
func (p *Instance) GetVec3() value.Vec3 {
	x := p.get("get_vec3", value.KindVec3)
	return x.(value.Vec3)
}

// SetVec3 writes a vec3 property and propagates.
func (p *Instance) SetVec3(s *Session, v value.Vec3) {
	p.set(s, "set_vec3", v)
}

// GetVec4 returns the value of a vec4 property.
func (p *Instance) GetVec4() value.Vec4 {
	x := p.get("get_vec4", value.KindVec4)
	return x.(value.Vec4)
}

// SetVec4 writes a vec4 property and propagates.
func (p *Instance) SetVec4(s *Session, v value.Vec4) {
	p.set(s, "set_vec4", v)
}

// GetText returns the value of a text property.
func (p *Instance) GetText() string {
	x := p.get("get_text", value.KindText)
	return string(x.(value.Text))
}

// SetText writes a text property and propagates.
func (p *Instance) SetText(s *Session, v string) {
	p.set(s, "set_text", value.Text(v))
}
