package monitoring

import (
	"encoding/json"
	"net/http/httptest"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/sarchlab/vcnet/sim"
)

type sampleComponent struct {
	*sim.ComponentBase

	buffer sim.Buffer
}

func (c *sampleComponent) Handle(_ sim.Event) error {
	return nil
}

func (c *sampleComponent) NotifyRecv(_ sim.Port) {
	// Do nothing
}

func (c *sampleComponent) NotifyPortFree(_ sim.Port) {
	// Do nothing
}

func newSampleComponent() *sampleComponent {
	c := &sampleComponent{
		ComponentBase: sim.NewComponentBase("Comp"),
		buffer:        sim.NewBuffer("Comp.Buf", 10),
	}

	c.AddPort("Port1", sim.NewPort(c, 2, 2, "Comp.Port1"))

	return c
}

var _ = Describe("Monitor", func() {
	var (
		m *Monitor
	)

	BeforeEach(func() {
		m = NewMonitor()
	})

	It("should register components and internal buffers", func() {
		c := newSampleComponent()

		m.RegisterComponent(c)

		Expect(m.components).To(HaveLen(1))
		// One buffer in the component, two in the port.
		Expect(m.buffers).To(HaveLen(3))
	})

	It("should list components", func() {
		m.RegisterComponent(newSampleComponent())

		w := httptest.NewRecorder()
		r := httptest.NewRequest("GET", "/api/list_components", nil)

		m.listComponents(w, r)

		var names []string
		Expect(json.Unmarshal(w.Body.Bytes(), &names)).To(Succeed())
		Expect(names).To(Equal([]string{"Comp"}))
	})

	It("should return 404 for an unknown component", func() {
		w := httptest.NewRecorder()

		comp := m.findComponentOr404(w, "NoSuchComp")

		Expect(comp).To(BeNil())
		Expect(w.Code).To(Equal(404))
	})

	It("should report the current time", func() {
		engine := sim.NewSerialEngine()
		m.RegisterEngine(engine)

		w := httptest.NewRecorder()
		r := httptest.NewRequest("GET", "/api/now", nil)

		m.now(w, r)

		Expect(w.Body.String()).To(Equal("{\"now\":0.0000000000}"))
	})

	It("should sort buffers by fill percentage", func() {
		c := newSampleComponent()
		c.buffer.Push(1)
		c.buffer.Push(2)
		m.RegisterComponent(c)

		w := httptest.NewRecorder()
		r := httptest.NewRequest("GET", "/api/buffers?limit=1", nil)

		m.listBuffers(w, r)

		var rsp []bufferRsp
		Expect(json.Unmarshal(w.Body.Bytes(), &rsp)).To(Succeed())
		Expect(rsp).To(HaveLen(1))
		Expect(rsp[0].Buffer).To(Equal("Comp.Buf"))
		Expect(rsp[0].Level).To(Equal(2))
		Expect(rsp[0].Cap).To(Equal(10))
	})

	It("should track progress bars", func() {
		bar := m.CreateProgressBar("Traffic", 100)
		bar.IncrementFinished(30)

		w := httptest.NewRecorder()
		r := httptest.NewRequest("GET", "/api/progress", nil)

		m.listProgressBars(w, r)

		var bars []ProgressBar
		Expect(json.Unmarshal(w.Body.Bytes(), &bars)).To(Succeed())
		Expect(bars).To(HaveLen(1))
		Expect(bars[0].Finished).To(Equal(uint64(30)))

		m.CompleteProgressBar(bar)
		Expect(m.progressBars).To(BeEmpty())
	})
})
