// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

//go:build !nogpu

package wgpu

import (
	"errors"
	"fmt"
	"log/slog"

	"github.com/gogpu/gputypes"
	"github.com/gogpu/wgpu/hal"

	// Import Vulkan backend so it registers via init().
	_ "github.com/gogpu/wgpu/hal/vulkan"

	"github.com/gogpu/pixbuf"
)

// ErrNoGPU is returned when no hardware adapter can be opened.
var ErrNoGPU = errors.New("wgpu: no GPU adapter available")

func slogger() *slog.Logger { return pixbuf.Logger() }

// GPUInfo describes the adapter a device was opened on.
type GPUInfo struct {
	Name       string
	DeviceType gputypes.DeviceType
	Backend    gputypes.Backend
}

// String returns a human-readable description of the GPU.
func (g GPUInfo) String() string {
	return fmt.Sprintf("%s (%s, %s)", g.Name, g.DeviceType, g.Backend)
}

// backendLookup resolves the hal backend used by Open. Tests replace it.
var backendLookup = hal.GetBackend

// preferredBackend is the hal backend Open asks for.
var preferredBackend = gputypes.BackendVulkan

// device bundles an open hal device with the instance that owns it.
type device struct {
	instance hal.Instance
	device   hal.Device
	queue    hal.Queue
	limits   gputypes.Limits
	info     GPUInfo
}

// openDevice creates an instance, picks a hardware adapter (discrete or
// integrated before anything else) and opens a device on it.
func openDevice() (*device, error) {
	api, ok := backendLookup(preferredBackend)
	if !ok {
		return nil, fmt.Errorf("%w: %s backend not available", ErrNoGPU, preferredBackend)
	}
	instance, err := api.CreateInstance(&hal.InstanceDescriptor{Flags: 0})
	if err != nil {
		return nil, fmt.Errorf("%w: create instance: %w", ErrNoGPU, err)
	}

	adapters := instance.EnumerateAdapters(nil)
	if len(adapters) == 0 {
		instance.Destroy()
		return nil, fmt.Errorf("%w: no adapters found", ErrNoGPU)
	}
	var selected *hal.ExposedAdapter
	for i := range adapters {
		if adapters[i].Info.DeviceType == gputypes.DeviceTypeDiscreteGPU ||
			adapters[i].Info.DeviceType == gputypes.DeviceTypeIntegratedGPU {
			selected = &adapters[i]
			break
		}
	}
	if selected == nil {
		selected = &adapters[0]
	}

	limits := gputypes.DefaultLimits()
	openDev, err := selected.Adapter.Open(gputypes.Features(0), limits)
	if err != nil {
		instance.Destroy()
		return nil, fmt.Errorf("%w: open device: %w", ErrNoGPU, err)
	}

	d := &device{
		instance: instance,
		device:   openDev.Device,
		queue:    openDev.Queue,
		limits:   limits,
		info: GPUInfo{
			Name:       selected.Info.Name,
			DeviceType: selected.Info.DeviceType,
			Backend:    preferredBackend,
		},
	}
	slogger().Info("wgpu: device opened", "gpu", d.info.String())
	return d, nil
}

// close destroys the device and then the instance.
func (d *device) close() {
	if d.device != nil {
		d.device.Destroy()
		d.device = nil
	}
	if d.instance != nil {
		d.instance.Destroy()
		d.instance = nil
	}
}
