package renderer

import (
	"fmt"

	"github.com/go-gl/gl/v2.1/gl"
	"github.com/go-gl/glfw/v3.3/glfw"

	"github.com/KasumiL5x/rs-raytracer/buffer"
	"github.com/KasumiL5x/rs-raytracer/log"
	"github.com/KasumiL5x/rs-raytracer/scene"
	"github.com/KasumiL5x/rs-raytracer/tracer"
	"github.com/KasumiL5x/rs-raytracer/writer"
)

var glLogger = log.New("renderer")

// An interactive opengl-based renderer. The window starts empty; space
// runs the tracer and updates the preview, s saves the latest frame as
// a ppm file and escape closes the window.
type interactiveGLRenderer struct {
	*defaultRenderer

	// Path for ppm snapshots saved with the s key.
	snapshotPath string

	// True when a key press requested a new frame.
	renderQueued bool

	// True once a frame completed and the texture holds valid data.
	framePresent bool

	// opengl handles
	window    *glfw.Window
	fbTexture uint32
	texFbo    uint32
}

// Create a new interactive opengl renderer. Must be called from the
// main OS thread (callers need runtime.LockOSThread).
func NewInteractive(sc *scene.Scene, cam *scene.Camera, scheduler tracer.BlockScheduler, opts Options, snapshotPath string) (Renderer, error) {
	base, err := newDefault(sc, cam, scheduler, opts)
	if err != nil {
		return nil, err
	}

	r := &interactiveGLRenderer{
		defaultRenderer: base,
		snapshotPath:    snapshotPath,
	}

	if err = r.initGL(opts); err != nil {
		r.Close()
		return nil, err
	}

	return r, nil
}

func (r *interactiveGLRenderer) Close() {
	if r.window != nil {
		r.window.SetShouldClose(true)
		glfw.Terminate()
		r.window = nil
	}
	r.defaultRenderer.Close()
}

func (r *interactiveGLRenderer) initGL(opts Options) error {
	var err error
	if err = glfw.Init(); err != nil {
		return fmt.Errorf("failed to initialize glfw: %s", err.Error())
	}

	glfw.WindowHint(glfw.Resizable, glfw.False)
	glfw.WindowHint(glfw.ContextVersionMajor, 2)
	glfw.WindowHint(glfw.ContextVersionMinor, 1)
	r.window, err = glfw.CreateWindow(int(opts.FrameW), int(opts.FrameH), "rs-raytracer", nil, nil)
	if err != nil {
		return fmt.Errorf("could not create opengl window: %s", err.Error())
	}
	r.window.MakeContextCurrent()

	if err = gl.Init(); err != nil {
		return fmt.Errorf("could not init opengl: %s", err.Error())
	}

	// Setup texture for image data
	gl.GenTextures(1, &r.fbTexture)
	gl.ActiveTexture(gl.TEXTURE0)
	gl.BindTexture(gl.TEXTURE_2D, r.fbTexture)
	gl.TexImage2D(gl.TEXTURE_2D, 0, gl.RGBA8, int32(opts.FrameW), int32(opts.FrameH), 0, gl.RGBA, gl.UNSIGNED_BYTE, nil)

	// Attach texture to FBO
	gl.GenFramebuffers(1, &r.texFbo)
	gl.BindFramebuffer(gl.READ_FRAMEBUFFER, r.texFbo)
	gl.FramebufferTexture2D(gl.READ_FRAMEBUFFER, gl.COLOR_ATTACHMENT0, gl.TEXTURE_2D, r.fbTexture, 0)
	gl.BindFramebuffer(gl.READ_FRAMEBUFFER, 0)

	r.window.SetKeyCallback(r.onKeyEvent)

	return nil
}

// Run the window event loop until the user closes it. Frames render on
// demand; the loop itself only pumps events and presents the texture.
func (r *interactiveGLRenderer) Render() (*buffer.FrameBuffer, error) {
	for !r.window.ShouldClose() {
		glfw.PollEvents()

		if r.renderQueued {
			r.renderQueued = false
			glLogger.Noticef("rendering %dx%d frame at %d spp", r.options.FrameW, r.options.FrameH, r.options.SamplesPerPixel)

			if _, err := r.defaultRenderer.Render(); err != nil {
				return nil, err
			}
			r.framePresent = true
			r.uploadFrame()
			glLogger.Noticef("frame completed in %s", r.stats.RenderTime)
		}

		r.present()
		r.window.SwapBuffers()
	}

	return r.fb, nil
}

// Copy the frame buffer into the opengl texture.
func (r *interactiveGLRenderer) uploadFrame() {
	img := r.fb.RGBA()
	gl.BindTexture(gl.TEXTURE_2D, r.fbTexture)
	gl.TexSubImage2D(gl.TEXTURE_2D, 0, 0, 0, int32(r.options.FrameW), int32(r.options.FrameH), gl.RGBA, gl.UNSIGNED_BYTE, gl.Ptr(img.Pix))
}

// Blit the texture FBO to the window. The source rectangle is flipped
// vertically since the buffer stores rows top to bottom while opengl
// textures grow bottom up.
func (r *interactiveGLRenderer) present() {
	w, h := int32(r.options.FrameW), int32(r.options.FrameH)
	gl.BindFramebuffer(gl.READ_FRAMEBUFFER, r.texFbo)
	gl.BlitFramebuffer(0, h, w, 0, 0, 0, w, h, gl.COLOR_BUFFER_BIT, gl.LINEAR)
	gl.BindFramebuffer(gl.READ_FRAMEBUFFER, 0)
}

func (r *interactiveGLRenderer) onKeyEvent(w *glfw.Window, key glfw.Key, scancode int, action glfw.Action, mods glfw.ModifierKey) {
	if action != glfw.Press {
		return
	}

	switch key {
	case glfw.KeyEscape:
		r.window.SetShouldClose(true)
	case glfw.KeySpace:
		r.renderQueued = true
	case glfw.KeyS:
		if !r.framePresent {
			glLogger.Warning("no rendered frame to save yet")
			return
		}
		if err := writer.WritePPMFile(r.snapshotPath, r.fb); err != nil {
			glLogger.Errorf("failed to save snapshot: %s", err.Error())
			return
		}
		glLogger.Noticef("saved snapshot to %s", r.snapshotPath)
	}
}
