package metrics

import (
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	. "github.com/smartystreets/goconvey/convey"
)

func TestMetricsOptions(t *testing.T) {
	Convey("Given metrics options", t, func() {
		Convey("When applying them to a manager", func() {
			m := &Manager{customLabels: map[string]string{}}
			WithNamespace("sim")(m)
			WithHistogramBuckets([]float64{0.1, 0.5, 1.0})(m)
			WithCustomLabels(map[string]string{"env": "test"})(m)

			Convey("Then every field should be set", func() {
				So(m.namespace, ShouldEqual, "sim")
				So(m.histogramBuckets, ShouldResemble, []float64{0.1, 0.5, 1.0})
				So(m.customLabels["env"], ShouldEqual, "test")
			})
		})

		Convey("When applying empty values", func() {
			m := &Manager{namespace: "cockpit", histogramBuckets: []float64{1}}
			WithNamespace("")(m)
			WithHistogramBuckets(nil)(m)
			WithPrometheusRegistry(nil)(m)

			Convey("Then defaults should be kept", func() {
				So(m.namespace, ShouldEqual, "cockpit")
				So(m.histogramBuckets, ShouldResemble, []float64{1})
				So(m.registry, ShouldBeNil)
			})
		})
	})
}

func TestMetricsManagerCreation(t *testing.T) {
	Convey("Given metrics manager creation", t, func() {
		Convey("When creating with default options", func() {
			registry := prometheus.NewRegistry()
			manager := NewManager(WithPrometheusRegistry(registry))

			Convey("Then it should be created with the cockpit namespace", func() {
				So(manager, ShouldNotBeNil)
				So(manager.namespace, ShouldEqual, "cockpit")
			})
		})

		Convey("When creating with custom options", func() {
			registry := prometheus.NewRegistry()
			manager := NewManager(
				WithNamespace("sim"),
				WithHistogramBuckets([]float64{0.1, 0.5, 1.0}),
				WithCustomLabels(map[string]string{"env": "test", "version": "1.0"}),
				WithPrometheusRegistry(registry),
			)
			manager.polls.Inc()

			Convey("Then metric names should carry the namespace", func() {
				families, err := registry.Gather()
				So(err, ShouldBeNil)
				found := false
				for _, f := range families {
					if f.GetName() == "sim_telemetry_polls_total" {
						found = true
					}
				}
				So(found, ShouldBeTrue)
			})
		})
	})
}

func TestMetricsRecording(t *testing.T) {
	Convey("Given the global metrics manager", t, func() {
		Convey("When recording telemetry metrics", func() {
			before := testutil.ToFloat64(globalManager.decodeMismatches.WithLabelValues("flight"))
			So(func() {
				RecordPoll(1.5)
				RecordRegionDecode("flight")
				RecordRegionUnavailable("flight2")
				RecordDecodeMismatch("flight")
				RecordTransportFailure("flight", "open")
				RecordValuesPublished(12)
				RecordBlinkToggle("HSI_Outer marker indicator")
			}, ShouldNotPanic)

			Convey("Then the counters should move", func() {
				after := testutil.ToFloat64(globalManager.decodeMismatches.WithLabelValues("flight"))
				So(after-before, ShouldEqual, 1)
			})
		})

		Convey("When recording binding metrics", func() {
			So(func() {
				RecordTriggerFiring()
				RecordBindingDispatch()
				RecordBindingFiltered()
				RecordActionError()
				RecordBindingRejected("kind_mismatch")
				UpdateBindingsActive(4)
				RecordDefaultBinding("materialized")
				UpdateStoreValues(7)
			}, ShouldNotPanic)

			Convey("Then gauges should hold the last value", func() {
				So(testutil.ToFloat64(globalManager.bindingsActive), ShouldEqual, 4)
				So(testutil.ToFloat64(globalManager.storeValues), ShouldEqual, 7)
			})
		})

		Convey("When recording queue and recorder metrics", func() {
			So(func() {
				UpdateQueueSize(3)
				UpdateQueueCapacity(64)
				UpdateQueueUtilization(3.0 / 64.0)
				RecordQueueEnqueue()
				RecordQueueDequeue()
				RecordQueueEnqueueError()
				RecordQueueProcessingLatency(0.2)
				RecordFrameWritten()
				RecordRecorderError()
				RecordWorkerProcessingLatency(0.4)
			}, ShouldNotPanic)
		})

		Convey("When recording HTTP, error and system metrics", func() {
			So(func() {
				RecordHTTPRequest("/values", "GET", "200")
				RecordHTTPRequestDuration("/values", "GET", "200", 2.5)
				RecordErrorByComponent("decoder", "mismatch")
				RecordErrorByType("mismatch", "warning")
				RecordErrorByEndpoint("/fire", "POST", "bad_request")
				RecordErrorLatency("decoder", "mismatch", 0.1)
				UpdateSystemMemoryUsage(1 << 20)
				UpdateSystemGoroutineCount(12)
				RecordSystemGCPauseTime(0.3)
			}, ShouldNotPanic)
		})

		Convey("When exposing the registry", func() {
			registry := GetRegistry()

			Convey("Then it should contain the cockpit metrics", func() {
				So(registry, ShouldNotBeNil)
				families, err := registry.Gather()
				So(err, ShouldBeNil)
				hasCockpit := false
				for _, f := range families {
					if strings.HasPrefix(f.GetName(), "cockpit_") {
						hasCockpit = true
					}
				}
				So(hasCockpit, ShouldBeTrue)
			})
		})
	})
}

func TestInit(t *testing.T) {
	Convey("Given metrics initialized with a namespace and an instance label", t, func() {
		registry := Init(WithNamespace("rig"), WithCustomLabels(map[string]string{"instance": "sim1"}))
		Reset(func() { Init() })

		RecordPoll(1)

		Convey("Then the global registry is the new one", func() {
			So(GetRegistry(), ShouldEqual, registry)
		})

		Convey("Then recorded metrics carry the namespace and label", func() {
			families, err := registry.Gather()
			So(err, ShouldBeNil)
			var labels map[string]string
			for _, f := range families {
				if f.GetName() == "rig_telemetry_polls_total" {
					labels = map[string]string{}
					for _, lp := range f.GetMetric()[0].GetLabel() {
						labels[lp.GetName()] = lp.GetValue()
					}
				}
			}
			So(labels, ShouldNotBeNil)
			So(labels["instance"], ShouldEqual, "sim1")
		})
	})
}
