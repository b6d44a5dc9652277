//go:build js && wasm

package main

import (
	"syscall/js"

	"github.com/voxelsplace/voxexport/api"
)

func bytesFromJS(v js.Value) []byte {
	buf := make([]byte, v.Get("length").Int())
	js.CopyBytesToGo(buf, v)
	return buf
}

func bytesToJS(b []byte) js.Value {
	arr := js.Global().Get("Uint8Array").New(len(b))
	js.CopyBytesToJS(arr, b)
	return arr
}

// glb2obj(bytes, name) returns {obj, mtl, texture, textureFile}; texture
// is null when the GLB has no image.
func glb2obj(this js.Value, args []js.Value) any {
	if len(args) < 1 {
		return js.ValueOf("missing glb bytes")
	}
	name := "model"
	if len(args) > 1 && args[1].Type() == js.TypeString {
		name = args[1].String()
	}
	b, err := api.GLBToOBJ(bytesFromJS(args[0]), name)
	if err != nil {
		return js.ValueOf(err.Error())
	}
	result := js.Global().Get("Object").New()
	result.Set("obj", bytesToJS(b.OBJ))
	result.Set("mtl", bytesToJS(b.MTL))
	if b.Texture != nil {
		result.Set("texture", bytesToJS(b.Texture))
		result.Set("textureFile", b.TextureFile)
	} else {
		result.Set("texture", js.Null())
	}
	return result
}

// vxs2stl(bytes, scale?, flat?) returns the binary STL.
func vxs2stl(this js.Value, args []js.Value) any {
	if len(args) < 1 {
		return js.ValueOf("missing vxs bytes")
	}
	scale := float32(1)
	if len(args) > 1 && args[1].Type() == js.TypeNumber {
		scale = float32(args[1].Float())
	}
	merge := !(len(args) > 2 && args[2].Truthy())
	out, err := api.SnapshotToSTL(bytesFromJS(args[0]), scale, merge)
	if err != nil {
		return js.ValueOf(err.Error())
	}
	return bytesToJS(out)
}

func vxs2glb(this js.Value, args []js.Value) any {
	if len(args) < 1 {
		return js.ValueOf("missing vxs bytes")
	}
	out, err := api.SnapshotToGLB(bytesFromJS(args[0]), 1)
	if err != nil {
		return js.ValueOf(err.Error())
	}
	return bytesToJS(out)
}

func main() {
	js.Global().Set("glb2obj", js.FuncOf(glb2obj))
	js.Global().Set("vxs2stl", js.FuncOf(vxs2stl))
	js.Global().Set("vxs2glb", js.FuncOf(vxs2glb))
	select {}
}
